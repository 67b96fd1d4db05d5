// Package subscription holds the subscription CLI commands.
package subscription

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// Cmd is the subscription command group
var Cmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Manage user subscriptions",
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(renewCmd)
	Cmd.AddCommand(consumeCmd)
}

func printSubscription(w io.Writer, s *queries.SubscriptionDTO) {
	fmt.Fprintf(w, "Subscription %s\n", s.ID)
	fmt.Fprintf(w, "  user:      %s\n", s.UserID)
	fmt.Fprintf(w, "  plan:      %s\n", s.PlanID)
	fmt.Fprintf(w, "  status:    %s\n", s.Status)
	fmt.Fprintf(w, "  period:    %s to %s\n", s.StartDate, s.EndDate)
	fmt.Fprintf(w, "  units:     %d remaining\n", s.RemainingUnits)
	fmt.Fprintf(w, "  renewal:   %t\n", s.RenewalEnabled)
	fmt.Fprintf(w, "  paid:      %s\n", s.PricePaid.StringFixed(2))
	if s.RenewedFromID != nil {
		fmt.Fprintf(w, "  renews:    %s\n", *s.RenewedFromID)
	}
}

// lifecycleCommand builds a command that runs one transition on a subscription.
func lifecycleCommand(use, short string, run func(ctx context.Context, app *cli.App, id uuid.UUID) (*domain.Subscription, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [subscription-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.RequireApp()
			if err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid subscription ID: %w", err)
			}

			sub, err := run(cmd.Context(), app, id)
			if err != nil {
				return fmt.Errorf("failed to %s subscription: %w", use, err)
			}

			dto := queries.ToSubscriptionDTO(sub)
			return cli.Output(cmd.OutOrStdout(), dto, func(w io.Writer) {
				printSubscription(w, dto)
			})
		},
	}
}
