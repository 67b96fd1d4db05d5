package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/api"
)

var (
	serveAddr       string
	serveWithOutbox bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API server. The outbox processor runs in the same
process unless --outbox=false is given or a separate worker publishes events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		c := app.Container
		ctx := cmd.Context()

		cfg := api.DefaultServerConfig()
		if c.Config.HTTPAddr != "" {
			cfg.Addr = c.Config.HTTPAddr
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		server := api.NewServerFromContainer(cfg, c)

		if serveWithOutbox && c.Config.OutboxProcessorEnabled {
			if err := c.OutboxProcessor.Start(ctx); err != nil {
				return err
			}
			defer c.OutboxProcessor.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveWithOutbox, "outbox", true, "run the outbox processor in this process")
	rootCmd.AddCommand(serveCmd)
}
