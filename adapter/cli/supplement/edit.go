package supplement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/catalog/application/commands"
)

var detailFlags = []struct {
	name  string
	usage string
}{
	{"description", "description"},
	{"brand", "brand"},
	{"type", "supplement type (protein, pre_workout, bcaa, creatine, vitamins, other)"},
	{"serving-size", "serving size, e.g. 30g"},
	{"ingredients", "ingredient list"},
	{"benefits", "benefits"},
	{"usage", "usage instructions"},
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Add a supplement to a category",
	Long: `Add a supplement. New supplements are available for sale.

Examples:
  supplifit supplement create "Iso Whey 900g" --category 4a2e... --brand Growth --type protein --price 179.90`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		rawCategory, _ := cmd.Flags().GetString("category")
		categoryID, err := uuid.Parse(rawCategory)
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}
		rawPrice, _ := cmd.Flags().GetString("price")
		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", rawPrice, err)
		}
		flag := func(name string) string {
			v, _ := cmd.Flags().GetString(name)
			return v
		}

		created, err := app.CreateSupplementHandler.Handle(cmd.Context(), commands.CreateSupplementCommand{
			CategoryID:        categoryID,
			Name:              args[0],
			Description:       flag("description"),
			Brand:             flag("brand"),
			Type:              flag("type"),
			ServingSize:       flag("serving-size"),
			Ingredients:       flag("ingredients"),
			Benefits:          flag("benefits"),
			UsageInstructions: flag("usage"),
			Price:             price,
			ActorID:           app.ActorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create supplement: %w", err)
		}
		return outputSupplement(cmd, app, created.ID())
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [supplement-id]",
	Short: "Edit a supplement",
	Long: `Edit a supplement. Only the flags you pass are changed.

Examples:
  supplifit supplement update 9c3f... --price 169.90
  supplifit supplement update 9c3f... --available=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid supplement ID: %w", err)
		}
		price, err := cli.ChangedDecimal(cmd, "price")
		if err != nil {
			return err
		}

		update := commands.UpdateSupplementCommand{
			SupplementID:      id,
			Name:              cli.ChangedString(cmd, "name"),
			Description:       cli.ChangedString(cmd, "description"),
			Brand:             cli.ChangedString(cmd, "brand"),
			Type:              cli.ChangedString(cmd, "type"),
			ServingSize:       cli.ChangedString(cmd, "serving-size"),
			Ingredients:       cli.ChangedString(cmd, "ingredients"),
			Benefits:          cli.ChangedString(cmd, "benefits"),
			UsageInstructions: cli.ChangedString(cmd, "usage"),
			Price:             price,
			ActorID:           app.ActorID,
		}
		if raw := cli.ChangedString(cmd, "category"); raw != nil {
			categoryID, err := uuid.Parse(*raw)
			if err != nil {
				return fmt.Errorf("invalid category ID: %w", err)
			}
			update.CategoryID = &categoryID
		}
		if cmd.Flags().Changed("available") {
			available, _ := cmd.Flags().GetBool("available")
			update.Available = &available
		}

		if _, err := app.UpdateSupplementHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update supplement: %w", err)
		}
		return outputSupplement(cmd, app, id)
	},
}

func init() {
	for _, f := range detailFlags {
		createCmd.Flags().String(f.name, "", f.usage)
		updateCmd.Flags().String(f.name, "", f.usage)
	}
	createCmd.Flags().String("category", "", "category ID")
	createCmd.Flags().StringP("price", "p", "", "price")
	_ = createCmd.MarkFlagRequired("category")
	_ = createCmd.MarkFlagRequired("brand")
	_ = createCmd.MarkFlagRequired("price")

	updateCmd.Flags().String("name", "", "name")
	updateCmd.Flags().String("category", "", "move to this category ID")
	updateCmd.Flags().StringP("price", "p", "", "price")
	updateCmd.Flags().Bool("available", true, "whether the supplement is for sale")
}
