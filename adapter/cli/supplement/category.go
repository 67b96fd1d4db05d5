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

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage supplement categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List categories by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		var search string
		if len(args) == 1 {
			search = args[0]
		}
		categories, err := app.CatalogQueries.Categories(cmd.Context(), search)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return cli.Output(cmd.OutOrStdout(), categories, func(w io.Writer) {
			if len(categories) == 0 {
				fmt.Fprintln(w, "No categories found.")
				return
			}
			tw := cli.Table(w, "ID", "NAME", "DESCRIPTION")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			_ = tw.Flush()
		})
	},
}

var categoryDescription string

var categoryCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		category, err := app.CreateCategoryHandler.Handle(cmd.Context(), commands.CreateCategoryCommand{
			Name:        args[0],
			Description: categoryDescription,
			ActorID:     app.ActorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		dto := queries.ToCategoryDTO(category)
		return cli.Output(cmd.OutOrStdout(), dto, func(w io.Writer) {
			fmt.Fprintf(w, "Category created: %s (%s)\n", dto.Name, dto.ID)
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete [category-id]",
	Short: "Remove an empty category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}
		err = app.DeleteCategoryHandler.Handle(cmd.Context(), commands.DeleteCategoryCommand{CategoryID: id, ActorID: app.ActorID})
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %s deleted\n", id)
		return nil
	},
}

func init() {
	categoryCreateCmd.Flags().StringVar(&categoryDescription, "description", "", "category description")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}
