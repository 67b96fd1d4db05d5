package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	mcpinternal "github.com/supplifit/supplifit/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		container := app.Container
		cfg := container.Config

		actor := uuid.Nil
		if cfg.MCPActorID != "" {
			actor, err = uuid.Parse(cfg.MCPActorID)
			if err != nil {
				return fmt.Errorf("invalid MCP_ACTOR_ID: %w", err)
			}
		}

		cliApp := mcpinternal.NewCLIApp(container, actor)
		err = mcpinternal.Serve(ctx, cfg, cliApp, container.Logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
