package store

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show [store-id]",
	Short: "Show a partner store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		storeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid store ID: %w", err)
		}

		store, err := app.StoreQueries.Get(cmd.Context(), queries.GetStoreQuery{StoreID: storeID})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), store, func(w io.Writer) {
			printStore(w, store)
		})
	},
}

var listOwner string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's stores or search by name",
	Long: `List the stores of an owner, or search stores by name, registration
number or address.

Examples:
  supplifit store list --owner 0b6e...
  supplifit store list whey`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		var stores []*queries.StoreDTO
		switch {
		case len(args) == 1:
			stores, err = app.StoreQueries.Search(cmd.Context(), queries.SearchStoresQuery{Query: args[0]})
		case listOwner != "":
			owner, perr := uuid.Parse(listOwner)
			if perr != nil {
				return fmt.Errorf("invalid owner ID: %w", perr)
			}
			stores, err = app.StoreQueries.ListByOwner(cmd.Context(), queries.ListStoresByOwnerQuery{OwnerID: owner})
		default:
			return fmt.Errorf("give a search term or --owner")
		}
		if err != nil {
			return err
		}

		return cli.Output(cmd.OutOrStdout(), stores, func(w io.Writer) {
			if len(stores) == 0 {
				fmt.Fprintln(w, "No stores found.")
				return
			}
			tw := cli.Table(w, "ID", "NAME", "TIER", "STATUS", "RATE")
			for _, s := range stores {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Tier, s.Status, s.CommissionRate)
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listOwner, "owner", "", "owner user ID")
}
