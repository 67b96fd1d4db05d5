package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/pkg/observability"
)

type ledgerOpened struct {
	domain.BaseEvent
	Owner string `json:"owner"`
}

type ledger struct {
	domain.BaseAggregateRoot
}

func newLedger(owner string) *ledger {
	now := time.Now()
	l := &ledger{BaseAggregateRoot: domain.NewBaseAggregateRoot(now)}
	l.AddDomainEvent(&ledgerOpened{
		BaseEvent: domain.NewBaseEvent(l.ID(), "Ledger", "test.ledger.opened", now),
		Owner:     owner,
	})
	return l
}

func seed(t *testing.T, conn database.Connection, repo Repository, n int) {
	t.Helper()
	ctx := context.Background()
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		l := newLedger("acme")
		require.NoError(t, Record(txCtx, repo, domain.EventMetadata{CorrelationID: uuid.New()}, l))
		assert.Empty(t, l.DomainEvents())
	}
	require.NoError(t, uow.Commit(txCtx))
}

func TestProcessor_PublishesAndMarks(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSQLiteRepository(conn)
	seed(t, conn, repo, 3)

	pub := &eventbus.RecordingPublisher{}
	metrics := observability.NewInMemoryMetrics()
	p := NewProcessor(repo, pub, DefaultProcessorConfig(), nil).WithMetrics(metrics)

	require.NoError(t, p.ProcessOnce(ctx))
	require.Len(t, pub.Messages(), 3)
	assert.Equal(t, "test.ledger.opened", pub.Messages()[0].RoutingKey)
	assert.Contains(t, string(pub.Messages()[0].Payload), `"owner":"acme"`)
	assert.Equal(t, uint64(3), p.GetStats().PublishedCount)
	assert.Equal(t, int64(3), metrics.GetCounter(observability.MetricOutboxPublished, observability.T("routing_key", "test.ledger.opened")))

	require.NoError(t, p.ProcessOnce(ctx))
	assert.Len(t, pub.Messages(), 3)
}

func TestProcessor_SchedulesRetryThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSQLiteRepository(conn)
	seed(t, conn, repo, 1)

	pub := &eventbus.RecordingPublisher{Err: errors.New("broker down")}
	cfg := DefaultProcessorConfig()
	cfg.MaxRetries = 2
	cfg.RetryBackoffBase = time.Hour
	p := NewProcessor(repo, pub, cfg, nil)

	require.NoError(t, p.ProcessOnce(ctx))
	assert.Equal(t, uint64(1), p.GetStats().FailedCount)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "message should wait for its retry slot")

	// Pull the retry slot into the past and fail again.
	_, err = conn.Exec(ctx, `UPDATE outbox SET next_retry_at = ?`, database.FormatTimestamp(time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	require.NoError(t, p.ProcessOnce(ctx))
	assert.Equal(t, uint64(1), p.GetStats().DeadCount)
	assert.Equal(t, "broker down", p.GetStats().LastError)

	var reason string
	require.NoError(t, conn.QueryRow(ctx, `SELECT dead_letter_reason FROM outbox`).Scan(&reason))
	assert.Equal(t, "broker down", reason)
}

func TestProcessor_RetryBackoff(t *testing.T) {
	p := NewProcessor(nil, nil, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  10 * time.Second,
	}, nil)

	assert.Equal(t, time.Second, p.retryBackoff(1))
	assert.Equal(t, 2*time.Second, p.retryBackoff(2))
	assert.Equal(t, 8*time.Second, p.retryBackoff(4))
	assert.Equal(t, 10*time.Second, p.retryBackoff(5))
	assert.Equal(t, 10*time.Second, p.retryBackoff(60))
}

func TestProcessor_StartStop(t *testing.T) {
	conn := dbtest.NewSQLite(t)
	repo := NewSQLiteRepository(conn)
	seed(t, conn, repo, 1)

	pub := &eventbus.RecordingPublisher{}
	cfg := DefaultProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	p := NewProcessor(repo, pub, cfg, nil)

	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())
	assert.Eventually(t, func() bool { return len(pub.Messages()) == 1 }, time.Second, 10*time.Millisecond)

	p.Stop()
	assert.False(t, p.IsRunning())
}

func TestSQLiteRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSQLiteRepository(conn)
	seed(t, conn, repo, 2)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.NoError(t, repo.MarkPublished(ctx, msgs[0].ID))

	_, err = conn.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`,
		database.FormatTimestamp(time.Now().AddDate(0, 0, -10)), msgs[0].ID)
	require.NoError(t, err)

	deleted, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestRecord_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSQLiteRepository(conn)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, Record(txCtx, repo, domain.EventMetadata{}, newLedger("acme")))
	require.NoError(t, uow.Rollback(txCtx))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
