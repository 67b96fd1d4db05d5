package plan

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

var updateCmd = &cobra.Command{
	Use:   "update [plan-id]",
	Short: "Edit a plan",
	Long: `Edit a plan. Only the flags you pass are changed. A new price or unit
count applies to subscriptions created or renewed afterwards.

Examples:
  supplifit plan update 2b7d... --price 159.90
  supplifit plan update 2b7d... --feature "free shipping" --feature "coach"
  supplifit plan update 2b7d... --clear-features`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		planID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid plan ID: %w", err)
		}
		newPrice, err := cli.ChangedDecimal(cmd, "price")
		if err != nil {
			return err
		}

		update := commands.UpdatePlanCommand{
			PlanID:      planID,
			Name:        cli.ChangedString(cmd, "name"),
			PlanType:    cli.ChangedString(cmd, "type"),
			Description: cli.ChangedString(cmd, "description"),
			Price:       newPrice,
			ActorID:     app.ActorID,
		}
		if cmd.Flags().Changed("units") {
			n, _ := cmd.Flags().GetInt("units")
			update.UnitsPerPeriod = &n
		}
		switch {
		case cmd.Flags().Changed("feature"):
			list, _ := cmd.Flags().GetStringArray("feature")
			update.Features = &list
		case cmd.Flags().Changed("clear-features"):
			update.Features = &[]string{}
		}

		plan, err := app.UpdatePlanHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		dto := queries.ToPlanDTO(plan)
		return cli.Output(cmd.OutOrStdout(), dto, func(w io.Writer) {
			printPlan(w, dto)
		})
	},
}

func statusCommand(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [plan-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.RequireApp()
			if err != nil {
				return err
			}

			planID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid plan ID: %w", err)
			}

			plan, err := app.SetPlanActiveHandler.Handle(cmd.Context(), commands.SetPlanActiveCommand{
				PlanID:  planID,
				Active:  active,
				ActorID: app.ActorID,
			})
			if err != nil {
				return fmt.Errorf("failed to %s plan: %w", use, err)
			}
			dto := queries.ToPlanDTO(plan)
			return cli.Output(cmd.OutOrStdout(), dto, func(w io.Writer) {
				if dto.Active {
					fmt.Fprintf(w, "Plan %s is open to new subscriptions\n", dto.ID)
				} else {
					fmt.Fprintf(w, "Plan %s is closed to new subscriptions; current subscribers keep renewing\n", dto.ID)
				}
			})
		},
	}
}

var (
	activateCmd   = statusCommand("activate", "Open a plan to new subscriptions", true)
	deactivateCmd = statusCommand("deactivate", "Close a plan to new subscriptions", false)
)

func init() {
	updateCmd.Flags().String("name", "", "plan name")
	updateCmd.Flags().StringP("type", "t", "", "plan type (basic, pro, elite)")
	updateCmd.Flags().String("description", "", "plan description")
	updateCmd.Flags().StringP("price", "p", "", "price per period")
	updateCmd.Flags().IntP("units", "u", 0, "units per period")
	updateCmd.Flags().StringArray("feature", nil, "replace the features (repeatable)")
	updateCmd.Flags().Bool("clear-features", false, "remove every feature")
	updateCmd.MarkFlagsMutuallyExclusive("feature", "clear-features")
}
