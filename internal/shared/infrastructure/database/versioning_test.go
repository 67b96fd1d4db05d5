package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

func TestIsUniqueViolation_SQLite(t *testing.T) {
	conn := newMemoryConn(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `CREATE UNIQUE INDEX idx_ledger_note ON ledger (note)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO ledger (id, note) VALUES (1, 'a')`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO ledger (id, note) VALUES (2, 'a')`)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	_, err = conn.Exec(ctx, `INSERT INTO ledger (id, note) VALUES (1, 'b')`)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	assert.False(t, database.IsUniqueViolation(nil))
	assert.False(t, database.IsUniqueViolation(errors.New("boom")))
}

func TestRequireAffected(t *testing.T) {
	conn := newMemoryConn(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `INSERT INTO ledger (id, note) VALUES (1, 'a')`)
	require.NoError(t, err)

	res, err := conn.Exec(ctx, `UPDATE ledger SET note = 'b' WHERE id = 1`)
	require.NoError(t, err)
	assert.NoError(t, database.RequireAffected(res, "ledger"))

	res, err = conn.Exec(ctx, `UPDATE ledger SET note = 'c' WHERE id = 2`)
	require.NoError(t, err)
	err = database.RequireAffected(res, "ledger")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
