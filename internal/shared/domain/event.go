package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened in the domain.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() EventMetadata
}

// EventMetadata contains tracing and context information for events.
type EventMetadata struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	CausationID   uuid.UUID `json:"causation_id"`
	ActorID       uuid.UUID `json:"actor_id"`
}

// BaseEvent provides common event fields. Exported fields end up in the
// serialized payload.
type BaseEvent struct {
	ID        uuid.UUID     `json:"event_id"`
	Aggregate uuid.UUID     `json:"aggregate_id"`
	Type      string        `json:"aggregate_type"`
	Key       string        `json:"routing_key"`
	At        time.Time     `json:"occurred_at"`
	Meta      EventMetadata `json:"-"`
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(aggregateID uuid.UUID, aggregateType, routingKey string, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Aggregate: aggregateID,
		Type:      aggregateType,
		Key:       routingKey,
		At:        at.UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID      { return e.ID }
func (e BaseEvent) AggregateID() uuid.UUID  { return e.Aggregate }
func (e BaseEvent) AggregateType() string   { return e.Type }
func (e BaseEvent) RoutingKey() string      { return e.Key }
func (e BaseEvent) OccurredAt() time.Time   { return e.At }
func (e BaseEvent) Metadata() EventMetadata { return e.Meta }

// SetMetadata sets the event metadata.
func (e *BaseEvent) SetMetadata(metadata EventMetadata) {
	e.Meta = metadata
}
