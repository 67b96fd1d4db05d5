package subscription

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show [subscription-id]",
	Short: "Show a subscription",
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

		sub, err := app.SubscriptionQueries.Get(cmd.Context(), queries.GetSubscriptionQuery{SubscriptionID: id})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), sub, func(w io.Writer) {
			printSubscription(w, sub)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list [user-id]",
	Short: "List a user's subscriptions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		user, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}

		subs, err := app.SubscriptionQueries.ListByUser(cmd.Context(), queries.ListUserSubscriptionsQuery{UserID: user})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), subs, func(w io.Writer) {
			if len(subs) == 0 {
				fmt.Fprintln(w, "No subscriptions found.")
				return
			}
			tw := cli.Table(w, "ID", "STATUS", "START", "END", "UNITS", "RENEWAL")
			for _, s := range subs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
					s.ID, s.Status, s.StartDate, s.EndDate, s.RemainingUnits, s.RenewalEnabled)
			}
			_ = tw.Flush()
		})
	},
}
