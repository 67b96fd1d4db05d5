package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	subscriptionsQueries "github.com/supplifit/supplifit/internal/subscriptions/application/queries"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire overdue subscriptions and announce the ones ending soon",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		result, err := app.ExpireDueHandler.Handle(cmd.Context(), subscriptionsCommands.ExpireDueCommand{ActorID: app.ActorID})
		if err != nil {
			return fmt.Errorf("failed to run expiry sweep: %w", err)
		}

		report := map[string]any{
			"today":          result.Today,
			"expired":        subscriptionsQueries.ToSubscriptionDTOs(result.Expired),
			"soon_to_expire": subscriptionsQueries.ToSubscriptionDTOs(result.SoonToExpire),
			"notified":       result.Notified,
		}
		return Output(cmd.OutOrStdout(), report, func(w io.Writer) {
			fmt.Fprintf(w, "Sweep for %s\n", result.Today)
			fmt.Fprintf(w, "  expired: %d\n", len(result.Expired))
			for _, s := range result.Expired {
				fmt.Fprintf(w, "    %s (ended %s)\n", s.ID(), s.EndDate())
			}
			fmt.Fprintf(w, "  expiring soon: %d\n", len(result.SoonToExpire))
			for _, s := range result.SoonToExpire {
				fmt.Fprintf(w, "    %s (%d days left)\n", s.ID(), result.Today.DaysUntil(s.EndDate()))
			}
			fmt.Fprintf(w, "  notices sent: %d\n", result.Notified)
		})
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
