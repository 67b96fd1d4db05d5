package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher sends serialized events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "noop publish", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

// PublishedMessage is one message captured by a RecordingPublisher.
type PublishedMessage struct {
	RoutingKey string
	Payload    []byte
}

// RecordingPublisher keeps every published message in memory.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	// Err, when set, is returned from Publish instead of recording.
	Err error
}

func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, PublishedMessage{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Messages returns a copy of everything published so far.
func (p *RecordingPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.messages...)
}
