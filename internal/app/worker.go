package app

import (
	"context"
	"sync"
	"time"

	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
)

// WorkerConfig sets the intervals of the background jobs.
type WorkerConfig struct {
	SweepInterval   time.Duration
	CleanupInterval time.Duration
	StatsInterval   time.Duration
	RetentionDays   int
	RunOutbox       bool
}

// WorkerConfigFrom reads the worker intervals from the container config.
func WorkerConfigFrom(c *Container) WorkerConfig {
	return WorkerConfig{
		SweepInterval:   c.Config.ExpirySweepInterval,
		CleanupInterval: c.Config.OutboxCleanupInterval,
		StatsInterval:   c.Config.OutboxStatsInterval,
		RetentionDays:   c.Config.OutboxRetentionDays,
		RunOutbox:       c.Config.OutboxProcessorEnabled,
	}
}

// Worker runs the expiry sweep, the outbox processor and outbox cleanup
// until its context is cancelled.
type Worker struct {
	c   *Container
	cfg WorkerConfig
	wg  sync.WaitGroup

	mu        sync.Mutex
	lastSweep *subscriptionsCommands.ExpireDueResult
	lastError error
}

// NewWorker creates a worker over the container's handlers.
func NewWorker(c *Container, cfg WorkerConfig) *Worker {
	return &Worker{c: c, cfg: cfg}
}

// Start launches the background loops and returns immediately.
func (w *Worker) Start(ctx context.Context) error {
	if w.cfg.RunOutbox {
		if err := w.c.OutboxProcessor.Start(ctx); err != nil {
			return err
		}
	}

	w.loop(ctx, w.cfg.SweepInterval, true, func(ctx context.Context) { _ = w.SweepOnce(ctx) })
	w.loop(ctx, w.cfg.CleanupInterval, false, w.cleanup)
	w.loop(ctx, w.cfg.StatsInterval, false, w.logStats)
	return nil
}

// Wait blocks until every loop has returned, then stops the outbox processor.
func (w *Worker) Wait() {
	w.wg.Wait()
	if w.c.OutboxProcessor.IsRunning() {
		w.c.OutboxProcessor.Stop()
	}
}

func (w *Worker) loop(ctx context.Context, interval time.Duration, immediate bool, job func(context.Context)) {
	if interval <= 0 {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			job(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

// SweepOnce runs one expiry sweep and remembers its outcome.
func (w *Worker) SweepOnce(ctx context.Context) error {
	result, err := w.c.ExpireDueHandler.Handle(ctx, subscriptionsCommands.ExpireDueCommand{})

	w.mu.Lock()
	w.lastError = err
	if err == nil {
		w.lastSweep = result
	}
	w.mu.Unlock()

	if err != nil {
		w.c.Logger.Error("expiry sweep failed", "error", err)
		return err
	}
	w.c.Logger.Info("expiry sweep completed",
		"today", result.Today.String(),
		"expired", len(result.Expired),
		"soon_to_expire", len(result.SoonToExpire),
		"notified", result.Notified,
	)
	return nil
}

// LastSweep returns the most recent successful sweep and the error of the
// latest attempt.
func (w *Worker) LastSweep() (*subscriptionsCommands.ExpireDueResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSweep, w.lastError
}

func (w *Worker) cleanup(ctx context.Context) {
	deleted, err := w.c.OutboxRepo.DeleteOld(ctx, w.cfg.RetentionDays)
	if err != nil {
		w.c.Logger.Error("outbox cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		w.c.Logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", w.cfg.RetentionDays)
	}
}

func (w *Worker) logStats(context.Context) {
	stats := w.c.OutboxProcessor.GetStats()
	w.c.Logger.Info("outbox stats",
		"running", stats.IsRunning,
		"published", stats.PublishedCount,
		"failed", stats.FailedCount,
		"dead", stats.DeadCount,
		"lag_seconds", stats.LagSeconds,
		"oldest_message_at", stats.OldestMessageAt,
		"last_processed_at", stats.LastProcessedAt,
		"last_error_at", stats.LastErrorAt,
		"last_error", stats.LastError,
	)
}
