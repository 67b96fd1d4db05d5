package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database, cache and broker connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		health := app.Container.Health.Check(cmd.Context())
		err = Output(cmd.OutOrStdout(), health, func(w io.Writer) {
			fmt.Fprintf(w, "status: %s\n", health.Status)
			names := make([]string, 0, len(health.Checks))
			for name := range health.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				check := health.Checks[name]
				fmt.Fprintf(w, "  %s: %s", name, check.Status)
				if check.Message != "" {
					fmt.Fprintf(w, " (%s)", check.Message)
				}
				fmt.Fprintln(w)
			}
		})
		if err != nil {
			return err
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
