package subscription

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

var (
	userID    string
	planID    string
	startDate string
	activate  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Subscribe a user to a plan",
	Long: `Open a subscription for one 30-day period. It starts pending unless
--activate is given.

Examples:
  supplifit subscription create --user 0b6e... --plan 9c4d...
  supplifit subscription create --user 0b6e... --plan 9c4d... --start 2024-03-01 --activate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		user, err := uuid.Parse(userID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
		plan, err := uuid.Parse(planID)
		if err != nil {
			return fmt.Errorf("invalid plan ID: %w", err)
		}

		create := commands.CreateSubscriptionCommand{UserID: user, PlanID: plan}
		if startDate != "" {
			d, err := sharedDomain.ParseDate(startDate)
			if err != nil {
				return fmt.Errorf("invalid start date format (use YYYY-MM-DD): %w", err)
			}
			create.StartDate = &d
		}

		ctx := cmd.Context()
		sub, err := app.CreateSubscriptionHandler.Handle(ctx, create)
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if activate {
			id := sub.ID()
			sub, err = app.ActivateSubscriptionHandler.Handle(ctx, commands.ActivateSubscriptionCommand{
				SubscriptionID: id,
				ActorID:        app.ActorID,
			})
			if err != nil {
				return fmt.Errorf("subscription %s created but not activated: %w", id, err)
			}
		}

		dto := queries.ToSubscriptionDTO(sub)
		return cli.Output(cmd.OutOrStdout(), dto, func(w io.Writer) {
			printSubscription(w, dto)
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&userID, "user", "", "subscribing user ID")
	createCmd.Flags().StringVar(&planID, "plan", "", "plan ID")
	createCmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD), defaults to today")
	createCmd.Flags().BoolVar(&activate, "activate", false, "activate immediately")
	_ = createCmd.MarkFlagRequired("user")
	_ = createCmd.MarkFlagRequired("plan")
}
