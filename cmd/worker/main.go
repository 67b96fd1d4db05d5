package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/supplifit/supplifit/internal/app"
	"github.com/supplifit/supplifit/pkg/config"
	"github.com/supplifit/supplifit/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logConfig := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cfg.AppVersion)
	logConfig.ServiceName = "supplifit-worker"
	logger = observability.NewLogger(logConfig)
	logger.Info("starting supplifit worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	workerCfg := app.WorkerConfigFrom(container)
	worker := app.NewWorker(container, workerCfg)

	logger.Info("starting background jobs",
		"sweep_interval", workerCfg.SweepInterval,
		"cleanup_interval", workerCfg.CleanupInterval,
		"outbox", workerCfg.RunOutbox,
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)
	if err := worker.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container, worker),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")

	worker.Wait()
	logger.Info("worker stopped")
}

func healthMux(container *app.Container, worker *app.Worker) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProcessor.GetStats()
		response := map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		}
		if last, err := worker.LastSweep(); last != nil || err != nil {
			sweep := map[string]any{}
			if last != nil {
				sweep["today"] = last.Today
				sweep["expired"] = len(last.Expired)
				sweep["soon_to_expire"] = len(last.SoonToExpire)
				sweep["notified"] = last.Notified
			}
			if err != nil {
				sweep["last_error"] = err.Error()
			}
			response["last_sweep"] = sweep
		}
		writeJSON(w, http.StatusOK, response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		health := container.Health.Check(checkCtx)
		if health.Status == observability.HealthStatusUnhealthy {
			writeJSON(w, http.StatusServiceUnavailable, health)
			return
		}
		writeJSON(w, http.StatusOK, health)
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, container.Metrics.Snapshot())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
