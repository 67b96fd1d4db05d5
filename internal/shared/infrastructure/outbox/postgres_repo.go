package outbox

import (
	"context"
	"time"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// PostgresRepository implements Repository for PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

// NewPostgresRepository creates a new PostgreSQL outbox repository.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const postgresSelect = `
	SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at, retry_count,
	       last_error, dead_lettered_at, dead_letter_reason
	FROM outbox`

// Save stores a new outbox message.
func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var metadata []byte
	if len(msg.Metadata) > 0 {
		metadata = msg.Metadata
	}

	return exec.QueryRow(ctx, `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.RoutingKey,
		[]byte(msg.Payload),
		metadata,
		msg.CreatedAt,
	).Scan(&msg.ID)
}

// SaveBatch stores multiple messages atomically.
func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if _, ok := database.TxInfoFromContext(ctx); ok {
		return r.saveAll(ctx, msgs)
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := r.saveAll(database.WithTx(ctx, tx, true), msgs); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) saveAll(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns messages due for publishing, oldest first.
func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.conn.Query(ctx, postgresSelect+`
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var msg Message
		var payload, metadata []byte
		err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.RoutingKey,
			&payload, &metadata, &msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt, &msg.RetryCount,
			&msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
		)
		if err != nil {
			return nil, err
		}
		msg.Payload = payload
		msg.Metadata = metadata
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE outbox SET published_at = NOW(), dead_lettered_at = NULL WHERE id = $1`, id)
	return err
}

// MarkFailed records a publish failure and schedules the next attempt.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3
		WHERE id = $1`, id, errMsg, nextRetryAt)
	return err
}

// MarkDead moves a message to the dead-letter state.
func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.conn.Exec(ctx, `
		UPDATE outbox
		SET dead_lettered_at = NOW(), dead_letter_reason = $2, retry_count = retry_count + 1
		WHERE id = $1`, id, reason)
	return err
}

// DeleteOld removes published messages older than the retention period.
func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	res, err := r.conn.Exec(ctx, `
		DELETE FROM outbox
		WHERE published_at IS NOT NULL
		  AND published_at < NOW() - INTERVAL '1 day' * $1`, olderThanDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
