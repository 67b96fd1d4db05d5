package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/supplifit/supplifit/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerCoreTools(srv, deps); err != nil {
		return err
	}
	if err := registerPartnerTools(srv, deps); err != nil {
		return err
	}
	if err := registerSubscriptionTools(srv, deps); err != nil {
		return err
	}
	if err := registerCatalogTools(srv, deps); err != nil {
		return err
	}

	return nil
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check CLI wiring health").
		Handler(func(ctx context.Context, input struct{}) (map[string]any, error) {
			if app == nil {
				return nil, errors.New("app not initialized")
			}
			if app.Container == nil || app.Container.Health == nil {
				return map[string]any{"status": "ok"}, nil
			}
			health := app.Container.Health.Check(ctx)
			return map[string]any{
				"status": string(health.Status),
				"checks": health.Checks,
			}, nil
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}
