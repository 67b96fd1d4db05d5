package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/app"
	mcpinternal "github.com/supplifit/supplifit/internal/mcp"
	"github.com/supplifit/supplifit/pkg/config"
	"github.com/supplifit/supplifit/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logConfig := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cfg.AppVersion)
	logConfig.ServiceName = "supplifit-mcp"
	logger = observability.NewLogger(logConfig)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	actor := uuid.Nil
	if cfg.MCPActorID != "" {
		actor, err = uuid.Parse(cfg.MCPActorID)
		if err != nil {
			logger.Error("invalid MCP_ACTOR_ID", "error", err)
			os.Exit(1)
		}
	}

	cliApp := mcpinternal.NewCLIApp(container, actor)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
