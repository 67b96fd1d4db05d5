package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

func openMemory(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewConnection_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "supplifit.db")

	conn, err := database.NewConnection(ctx, database.Config{SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Ping(ctx))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	_, err := conn.Exec(ctx, `CREATE TABLE plans (id TEXT PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	res, err := conn.Exec(ctx, `INSERT INTO plans (id, name) VALUES (?, ?), (?, ?)`, "1", "Basic", "2", "Pro")
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var name string
	require.NoError(t, conn.QueryRow(ctx, `SELECT name FROM plans WHERE id = ?`, "2").Scan(&name))
	assert.Equal(t, "Pro", name)

	rows, err := conn.Query(ctx, `SELECT name FROM plans ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Basic", "Pro"}, names)

	err = conn.QueryRow(ctx, `SELECT name FROM plans WHERE id = ?`, "missing").Scan(&name)
	assert.True(t, database.IsNoRows(err))
}

func TestConnection_Transaction(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	_, err := conn.Exec(ctx, `CREATE TABLE plans (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	tx, err := conn.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO plans (id) VALUES (?)`, "kept")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	tx, err = conn.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO plans (id) VALUES (?)`, "discarded")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count))
	assert.Equal(t, 1, count)
}
