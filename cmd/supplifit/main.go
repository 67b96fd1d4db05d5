package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/adapter/cli/commission"
	"github.com/supplifit/supplifit/adapter/cli/mcp"
	"github.com/supplifit/supplifit/adapter/cli/plan"
	"github.com/supplifit/supplifit/adapter/cli/store"
	"github.com/supplifit/supplifit/adapter/cli/subscription"
	"github.com/supplifit/supplifit/adapter/cli/supplement"
	"github.com/supplifit/supplifit/internal/app"
	"github.com/supplifit/supplifit/pkg/config"
	"github.com/supplifit/supplifit/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	configFile, verbose := cli.PreparseGlobalFlags(os.Args[1:])

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		observability.NewLogger(observability.DefaultLogConfig()).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if verbose {
		level = string(observability.LogLevelDebug)
	}
	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, level, cfg.LogFormat, cfg.AppVersion))
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// version and help still work without a database
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	cli.AddCommand(commission.Cmd)
	cli.AddCommand(store.Cmd)
	cli.AddCommand(plan.Cmd)
	cli.AddCommand(subscription.Cmd)
	cli.AddCommand(supplement.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
