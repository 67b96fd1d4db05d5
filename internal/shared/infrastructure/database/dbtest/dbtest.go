// Package dbtest opens migrated in-memory databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/sqlite"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/migrations"
)

// NewSQLite returns a private in-memory SQLite connection with the full
// schema applied. The connection is closed when the test ends.
func NewSQLite(t testing.TB) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}
