package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/pkg/observability"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig returns the worker defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     time.Second,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Processor polls the outbox and hands messages to the publisher.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	metrics   observability.Metrics

	wg       sync.WaitGroup
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex

	statsMu sync.Mutex
	stats   Stats
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   observability.NoopMetrics{},
		stopChan:  make(chan struct{}),
	}
}

// WithMetrics records publish outcomes on m.
func (p *Processor) WithMetrics(m observability.Metrics) *Processor {
	if m != nil {
		p.metrics = m
	}
	return p
}

// Start begins the polling loop in a goroutine.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
	return nil
}

// Stop waits for the polling loop to exit.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning returns true if the processor is running.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error("failed to process outbox batch", "error", err)
			}
		}
	}
}

// ProcessOnce processes a single batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	return p.processBatch(ctx)
}

func (p *Processor) processBatch(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return err
	}

	p.recordProcessed(messages)

	for _, msg := range messages {
		meta := decodeMetadata(msg)
		msgCtx := ctx
		if meta.CorrelationID != "" {
			msgCtx = observability.WithCorrelationID(ctx, meta.CorrelationID)
		}

		if err := p.publisher.Publish(msgCtx, msg.RoutingKey, msg.Payload); err != nil {
			p.handleFailure(msgCtx, msg, meta, err)
			continue
		}

		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.ErrorContext(msgCtx, "failed to mark message as published",
				"id", msg.ID,
				"event_id", msg.EventID,
				"error", err,
			)
			continue
		}
		p.recordPublished()
		p.metrics.Counter(observability.MetricOutboxPublished, 1, observability.T("routing_key", msg.RoutingKey))
	}

	return nil
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, meta metadataFields, err error) {
	p.logger.WarnContext(ctx, "failed to publish message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"causation_id", meta.CausationID,
		"actor_id", meta.ActorID,
		"error", err,
	)

	if p.shouldDeadLetter(msg) {
		p.recordDead(err)
		p.metrics.Counter(observability.MetricOutboxDeadLettered, 1, observability.T("routing_key", msg.RoutingKey))
		if markErr := p.repo.MarkDead(ctx, msg.ID, err.Error()); markErr != nil {
			p.logger.ErrorContext(ctx, "failed to mark message as dead-lettered", "id", msg.ID, "error", markErr)
		}
		return
	}

	p.recordFailed(err)
	p.metrics.Counter(observability.MetricOutboxFailed, 1, observability.T("routing_key", msg.RoutingKey))
	nextRetryAt := time.Now().Add(p.retryBackoff(msg.RetryCount + 1))
	if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), nextRetryAt); markErr != nil {
		p.logger.ErrorContext(ctx, "failed to mark message as failed", "id", msg.ID, "error", markErr)
	}
}

func (p *Processor) shouldDeadLetter(msg *Message) bool {
	if p.config.MaxRetries <= 0 {
		return true
	}
	return msg.RetryCount+1 >= p.config.MaxRetries
}

// retryBackoff doubles from the base delay per attempt, capped at the max.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	limit := p.config.RetryBackoffMax
	if limit <= 0 {
		limit = time.Minute
	}

	backoff := base
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= limit {
			return limit
		}
	}
	return min(backoff, limit)
}

type metadataFields struct {
	CorrelationID string
	CausationID   string
	ActorID       string
}

func decodeMetadata(msg *Message) metadataFields {
	if len(msg.Metadata) == 0 {
		return metadataFields{}
	}

	var metadata domain.EventMetadata
	if err := json.Unmarshal(msg.Metadata, &metadata); err != nil {
		return metadataFields{}
	}

	return metadataFields{
		CorrelationID: metadata.CorrelationID.String(),
		CausationID:   metadata.CausationID.String(),
		ActorID:       metadata.ActorID.String(),
	}
}

// Stats reports processor progress for the worker's stats log.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// GetStats returns current processor statistics.
func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	stats := p.stats
	p.statsMu.Unlock()

	stats.IsRunning = p.IsRunning()
	return stats
}

func (p *Processor) recordPublished() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.PublishedCount++
}

func (p *Processor) recordFailed(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.FailedCount++
	p.setLastError(err)
}

func (p *Processor) recordDead(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.DeadCount++
	p.setLastError(err)
}

func (p *Processor) recordError(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.setLastError(err)
}

// setLastError requires statsMu.
func (p *Processor) setLastError(err error) {
	now := time.Now()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &now
}

func (p *Processor) recordProcessed(messages []*Message) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	now := time.Now()
	p.stats.LastProcessedAt = &now
	if len(messages) == 0 {
		p.stats.LagSeconds = 0
		p.stats.OldestMessageAt = nil
		return
	}

	oldest := messages[0].CreatedAt
	for _, msg := range messages[1:] {
		if msg.CreatedAt.Before(oldest) {
			oldest = msg.CreatedAt
		}
	}
	p.stats.OldestMessageAt = &oldest
	p.stats.LagSeconds = now.Sub(oldest).Seconds()
}
