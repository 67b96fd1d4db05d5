package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/sqlite"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/migrations"
)

func TestFiles_SameSetPerDriver(t *testing.T) {
	sqliteFiles, err := migrations.Files(database.DriverSQLite)
	require.NoError(t, err)
	postgresFiles, err := migrations.Files(database.DriverPostgres)
	require.NoError(t, err)

	assert.NotEmpty(t, sqliteFiles)
	assert.Equal(t, sqliteFiles, postgresFiles)
}

func TestRun_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	defer conn.Close()

	applied, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_outbox", "002_partner_stores", "003_subscriptions", "004_catalog"}, applied)

	applied, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, applied)

	for _, table := range []string{"outbox", "partner_stores", "subscription_plans", "subscriptions", "supplement_categories", "supplements"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
