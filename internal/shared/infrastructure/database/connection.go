package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by *sql.Rows; the pgx connection adapts pgx.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result is satisfied by sql.Result. PostgreSQL has no LastInsertId and
// returns an error from it.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Executor runs statements against a connection or an open transaction.
// Repositories take one from ExecutorFromContext and stay driver agnostic
// apart from placeholder syntax.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must end in Commit or Rollback.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is an open database handle.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

var (
	_ Rows   = (*sql.Rows)(nil)
	_ Result = sql.Result(nil)
)
