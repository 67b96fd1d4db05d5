// Package supplement holds the catalog CLI commands.
package supplement

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/catalog/application/commands"
	"github.com/supplifit/supplifit/internal/catalog/application/queries"
)

// Cmd is the supplement command group
var Cmd = &cobra.Command{
	Use:   "supplement",
	Short: "Manage the supplement catalog",
}

var (
	listCategory  string
	listType      string
	listBrand     string
	listAvailable string
	listOrdering  string
	listLimit     int
)

var listCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List or search supplements",
	Long: `List supplements, optionally matching a search term against name,
description, brand, ingredients and benefits.

Examples:
  supplifit supplement list whey
  supplifit supplement list --type creatine --available true
  supplifit supplement list --brand growth --ordering -price`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		query := queries.SearchSupplementsQuery{
			Type:     listType,
			Brand:    listBrand,
			Ordering: listOrdering,
			Limit:    listLimit,
		}
		if len(args) == 1 {
			query.Query = args[0]
		}
		if listCategory != "" {
			id, err := uuid.Parse(listCategory)
			if err != nil {
				return fmt.Errorf("invalid category ID: %w", err)
			}
			query.CategoryID = &id
		}
		switch listAvailable {
		case "":
		case "true", "false":
			available := listAvailable == "true"
			query.Available = &available
		default:
			return fmt.Errorf("--available must be true or false")
		}

		supplements, err := app.CatalogQueries.Supplements(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list supplements: %w", err)
		}
		return cli.Output(cmd.OutOrStdout(), supplements, func(w io.Writer) {
			if len(supplements) == 0 {
				fmt.Fprintln(w, "No supplements found.")
				return
			}
			tw := cli.Table(w, "ID", "NAME", "BRAND", "TYPE", "CATEGORY", "PRICE", "AVAILABLE")
			for _, s := range supplements {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
					s.ID, s.Name, s.Brand, s.Type, s.CategoryName, s.Price, s.Available)
			}
			_ = tw.Flush()
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [supplement-id]",
	Short: "Show a supplement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid supplement ID: %w", err)
		}
		return outputSupplement(cmd, app, id)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [supplement-id]",
	Short: "Remove a supplement from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid supplement ID: %w", err)
		}
		err = app.DeleteSupplementHandler.Handle(cmd.Context(), commands.DeleteSupplementCommand{SupplementID: id, ActorID: app.ActorID})
		if err != nil {
			return fmt.Errorf("failed to delete supplement: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Supplement %s deleted\n", id)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "category ID")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "supplement type (protein, pre_workout, bcaa, creatine, vitamins, other)")
	listCmd.Flags().StringVar(&listBrand, "brand", "", "brand, case-insensitive")
	listCmd.Flags().StringVar(&listAvailable, "available", "", "true or false")
	listCmd.Flags().StringVar(&listOrdering, "ordering", "", "name, price or created_at; prefix - to reverse")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum results")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(categoryCmd)
}

func outputSupplement(cmd *cobra.Command, app *cli.App, id uuid.UUID) error {
	s, err := app.CatalogQueries.Supplement(cmd.Context(), id)
	if err != nil {
		return err
	}
	return cli.Output(cmd.OutOrStdout(), s, func(w io.Writer) {
		fmt.Fprintf(w, "Supplement %s\n", s.ID)
		fmt.Fprintf(w, "  name:      %s\n", s.Name)
		fmt.Fprintf(w, "  brand:     %s\n", s.Brand)
		fmt.Fprintf(w, "  type:      %s\n", s.Type)
		fmt.Fprintf(w, "  category:  %s\n", s.CategoryName)
		fmt.Fprintf(w, "  price:     %s\n", s.Price)
		fmt.Fprintf(w, "  available: %t\n", s.Available)
		if s.ServingSize != "" {
			fmt.Fprintf(w, "  serving:   %s\n", s.ServingSize)
		}
	})
}
