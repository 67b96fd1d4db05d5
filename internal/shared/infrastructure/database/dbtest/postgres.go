package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/postgres"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/migrations"
)

// PostgresURLEnv names the variable holding the test database URL.
const PostgresURLEnv = "TEST_DATABASE_URL"

// NewPostgres connects to the database in TEST_DATABASE_URL, applies the
// schema and empties tables in the given order. The test is skipped when the
// variable is unset or the server is unreachable.
func NewPostgres(t testing.TB, tables ...string) database.Connection {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set, skipping PostgreSQL test", PostgresURLEnv)
	}

	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, database.Config{URL: url, MaxConns: 4})
	if err != nil {
		t.Skipf("PostgreSQL unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)

	for _, table := range tables {
		_, err := conn.Exec(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return conn
}
