// Package migrations applies the embedded schema for the configured driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// Files lists the up migrations for a driver in apply order.
func Files(driver database.Driver) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, driver.String())
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations for %s: %w", driver, err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run applies every migration not yet recorded in schema_migrations and
// returns the versions it applied.
func Run(ctx context.Context, conn database.Connection) ([]string, error) {
	driver := conn.Driver()
	files, err := Files(driver)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	lookup := `SELECT 1 FROM schema_migrations WHERE version = ?`
	record := `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`
	if driver == database.DriverPostgres {
		lookup = `SELECT 1 FROM schema_migrations WHERE version = $1`
		record = `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`
	}

	var applied []string
	for _, file := range files {
		version := strings.TrimSuffix(file, ".up.sql")

		var one int
		err := conn.QueryRow(ctx, lookup, version).Scan(&one)
		if err == nil {
			continue
		}
		if !database.IsNoRows(err) {
			return applied, fmt.Errorf("failed to check migration %s: %w", version, err)
		}

		body, err := migrationsFS.ReadFile(driver.String() + "/" + file)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := apply(ctx, conn, string(body), record, version); err != nil {
			return applied, fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
		applied = append(applied, version)
	}

	return applied, nil
}

func apply(ctx context.Context, conn database.Connection, body, record, version string) error {
	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, body); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if _, err := tx.Exec(ctx, record, version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
