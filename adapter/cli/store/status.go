package store

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/partners/application/commands"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

var statusCmd = &cobra.Command{
	Use:   "status [store-id] [status]",
	Short: "Change a store's review status",
	Long: `Move a store to pending, approved, rejected or suspended.

Examples:
  supplifit store status 6f1c... approved`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		storeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid store ID: %w", err)
		}

		ctx := cmd.Context()
		err = app.ChangeStoreStatusHandler.Handle(ctx, commands.ChangeStoreStatusCommand{
			StoreID: storeID,
			Status:  args[1],
			ActorID: app.ActorID,
		})
		if err != nil {
			return fmt.Errorf("failed to change store status: %w", err)
		}

		store, err := app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: storeID})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), store, func(w io.Writer) {
			fmt.Fprintf(w, "Store %s is now %s\n", store.ID, store.Status)
		})
	},
}
