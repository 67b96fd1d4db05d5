package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata for domain events. The
// request correlation ID is reused when the context carries a valid one.
func NewEventMetadata(ctx context.Context, actorID uuid.UUID) domain.EventMetadata {
	correlationID, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		ActorID:       actorID,
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
