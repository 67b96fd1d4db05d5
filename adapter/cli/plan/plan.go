// Package plan holds the subscription plan CLI commands.
package plan

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

// Cmd is the plan command group
var Cmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage subscription plans",
}

var activeOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscription plans, cheapest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		plans, err := app.SubscriptionQueries.Plans(cmd.Context(), queries.ListPlansQuery{ActiveOnly: activeOnly})
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		return cli.Output(cmd.OutOrStdout(), plans, func(w io.Writer) {
			if len(plans) == 0 {
				fmt.Fprintln(w, "No plans found.")
				return
			}
			tw := cli.Table(w, "ID", "NAME", "TYPE", "PRICE", "UNITS", "ACTIVE")
			for _, p := range plans {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
					p.ID, p.Name, p.PlanType, p.Price.StringFixed(2), p.UnitsPerPeriod, p.Active)
			}
			_ = tw.Flush()
		})
	},
}

var (
	planType    string
	price       string
	units       int
	description string
	features    []string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Add a plan to the catalog",
	Long: `Add a plan to the catalog.

Examples:
  supplifit plan create "Pro" --type pro --price 149.90 --units 10
  supplifit plan create "Basic" --type basic --price 49.90 --units 3 --feature "free shipping"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", price, err)
		}

		ctx := cmd.Context()
		result, err := app.CreatePlanHandler.Handle(ctx, commands.CreatePlanCommand{
			Name:           args[0],
			PlanType:       planType,
			Description:    description,
			Price:          amount,
			UnitsPerPeriod: units,
			Features:       features,
			ActorID:        app.ActorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}

		plan, err := app.SubscriptionQueries.Plan(ctx, result.PlanID)
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), plan, func(w io.Writer) {
			printPlan(w, plan)
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "only plans open to new subscriptions")

	createCmd.Flags().StringVarP(&planType, "type", "t", "", "plan type (basic, pro, elite)")
	createCmd.Flags().StringVarP(&price, "price", "p", "0", "price per period")
	createCmd.Flags().IntVarP(&units, "units", "u", 0, "units per period")
	createCmd.Flags().StringVar(&description, "description", "", "plan description")
	createCmd.Flags().StringArrayVar(&features, "feature", nil, "plan feature (repeatable)")
	_ = createCmd.MarkFlagRequired("type")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
}

func printPlan(w io.Writer, plan *queries.PlanDTO) {
	fmt.Fprintf(w, "Plan %s\n", plan.ID)
	fmt.Fprintf(w, "  name:   %s (%s)\n", plan.Name, plan.PlanType)
	fmt.Fprintf(w, "  price:  %s\n", plan.Price.StringFixed(2))
	fmt.Fprintf(w, "  units:  %d per period\n", plan.UnitsPerPeriod)
	fmt.Fprintf(w, "  active: %t\n", plan.Active)
	if len(plan.Features) > 0 {
		fmt.Fprintf(w, "  features: %s\n", strings.Join(plan.Features, ", "))
	}
}
