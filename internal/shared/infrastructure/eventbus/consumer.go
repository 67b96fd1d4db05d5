package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventConsumer handles the routing keys it declares.
type EventConsumer interface {
	EventTypes() []string
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent is the envelope decoded from a published payload. Payload
// holds the full original message so consumers can decode event fields.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"-"`
}

// Decode unmarshals the full payload into v.
func (e *ConsumedEvent) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// ConsumerRegistry maps routing keys to consumers.
type ConsumerRegistry struct {
	consumers map[string][]EventConsumer
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{
		consumers: make(map[string][]EventConsumer),
		logger:    logger,
	}
}

// Register adds a consumer for each of its declared event types.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range consumer.EventTypes() {
		r.consumers[eventType] = append(r.consumers[eventType], consumer)
	}
}

// Consumers returns the consumers registered for eventType.
func (r *ConsumerRegistry) Consumers(eventType string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.consumers[eventType]
}

// Dispatch delivers the event to every matching consumer. All consumers run
// even when one fails; the failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	var errs []error
	for _, consumer := range r.Consumers(event.RoutingKey) {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
