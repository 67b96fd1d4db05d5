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

var updateCmd = &cobra.Command{
	Use:   "update [store-id]",
	Short: "Edit a store's contact details or commission rate",
	Long: `Edit a store. Only the flags you pass are changed. Tier, owner and
registration number are fixed once the store exists.

Examples:
  supplifit store update 6f1c... --phone "+55 11 4000-0000"
  supplifit store update 6f1c... --rate 0.045`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		storeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid store ID: %w", err)
		}
		newRate, err := cli.ChangedDecimal(cmd, "rate")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		_, err = app.UpdateStoreHandler.Handle(ctx, commands.UpdateStoreCommand{
			StoreID:        storeID,
			Name:           cli.ChangedString(cmd, "name"),
			Address:        cli.ChangedString(cmd, "address"),
			Phone:          cli.ChangedString(cmd, "phone"),
			Email:          cli.ChangedString(cmd, "email"),
			Description:    cli.ChangedString(cmd, "description"),
			CommissionRate: newRate,
			ActorID:        app.ActorID,
		})
		if err != nil {
			return fmt.Errorf("failed to update store: %w", err)
		}

		store, err := app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: storeID})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), store, func(w io.Writer) {
			printStore(w, store)
		})
	},
}

func init() {
	updateCmd.Flags().String("name", "", "store name")
	updateCmd.Flags().String("address", "", "store address")
	updateCmd.Flags().String("phone", "", "contact phone")
	updateCmd.Flags().String("email", "", "contact email")
	updateCmd.Flags().String("description", "", "store description")
	updateCmd.Flags().String("rate", "", "commission rate between 0 and 1")
}
