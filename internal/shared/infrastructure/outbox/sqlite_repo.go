package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

// SQLiteRepository implements Repository for SQLite.
type SQLiteRepository struct {
	conn database.Connection
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

const sqliteInsert = `
	INSERT INTO outbox (
		event_id, aggregate_type, aggregate_id, event_type, routing_key,
		payload, metadata, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const sqliteSelect = `
	SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at, retry_count,
	       last_error, dead_lettered_at, dead_letter_reason
	FROM outbox`

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		metadata = sql.NullString{String: string(msg.Metadata), Valid: true}
	}

	res, err := exec.Exec(ctx, sqliteInsert,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		database.FormatTimestamp(msg.CreatedAt),
	)
	if err != nil {
		return err
	}
	msg.ID, err = res.LastInsertId()
	return err
}

// SaveBatch stores multiple messages, inside the caller's transaction when
// there is one and inside a fresh one otherwise.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
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

func (r *SQLiteRepository) saveAll(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished returns messages due for publishing, oldest first.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.conn.Query(ctx, sqliteSelect+`
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`,
		database.FormatTimestamp(time.Now()), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`,
		database.FormatTimestamp(time.Now()), id,
	)
	return err
}

// MarkFailed records a publish failure and schedules the next attempt.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		errMsg, database.FormatTimestamp(nextRetryAt), id,
	)
	return err
}

// MarkDead moves a message to the dead-letter state.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ?, retry_count = retry_count + 1 WHERE id = ?`,
		database.FormatTimestamp(time.Now()), reason, id,
	)
	return err
}

// DeleteOld removes published messages older than the retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	res, err := r.conn.Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		database.FormatTimestamp(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSQLiteMessage(row database.Row) (*Message, error) {
	var (
		msg                                    Message
		eventID, aggregateID, payload, created string
		metadata, lastError, deadReason        sql.NullString
		publishedAt, nextRetryAt, deadAt       sql.NullString
	)

	err := row.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType, &msg.RoutingKey,
		&payload, &metadata, &created, &publishedAt, &nextRetryAt, &msg.RetryCount,
		&lastError, &deadAt, &deadReason,
	)
	if err != nil {
		return nil, err
	}

	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, err
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, err
	}
	if msg.CreatedAt, err = database.ParseTimestamp(created); err != nil {
		return nil, err
	}
	if msg.PublishedAt, err = database.ParseNullTimestamp(publishedAt); err != nil {
		return nil, err
	}
	if msg.NextRetryAt, err = database.ParseNullTimestamp(nextRetryAt); err != nil {
		return nil, err
	}
	if msg.DeadLetteredAt, err = database.ParseNullTimestamp(deadAt); err != nil {
		return nil, err
	}

	msg.Payload = []byte(payload)
	if metadata.Valid {
		msg.Metadata = []byte(metadata.String)
	}
	if lastError.Valid {
		msg.LastError = &lastError.String
	}
	if deadReason.Valid {
		msg.DeadLetterReason = &deadReason.String
	}
	return &msg, nil
}
