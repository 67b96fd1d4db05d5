package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		applied, err := migrations.Run(cmd.Context(), app.Container.DBConn)
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		return Output(cmd.OutOrStdout(), map[string]any{"applied": applied}, func(w io.Writer) {
			if len(applied) == 0 {
				fmt.Fprintln(w, "database is up to date")
				return
			}
			for _, v := range applied {
				fmt.Fprintf(w, "applied %s\n", v)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
