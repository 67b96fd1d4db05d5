package outbox

import (
	"context"
	"time"

	"github.com/supplifit/supplifit/internal/shared/application"
	"github.com/supplifit/supplifit/internal/shared/domain"
)

// Repository persists outbox messages. Save and SaveBatch join the unit of
// work carried by ctx.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns messages due for publishing, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

// Record stamps the aggregate's pending events with command metadata, stores
// them and clears them from the aggregate.
func Record(ctx context.Context, repo Repository, actor domain.EventMetadata, aggregates ...domain.AggregateRoot) error {
	var events []domain.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.DomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}

	application.ApplyEventMetadata(events, actor)

	msgs, err := NewMessages(events)
	if err != nil {
		return err
	}
	if err := repo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	for _, agg := range aggregates {
		agg.ClearDomainEvents()
	}
	return nil
}
