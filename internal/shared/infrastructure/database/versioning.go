package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/supplifit/supplifit/internal/shared/domain"
)

// SQLite extended result codes for constraint failures.
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

const pgUniqueViolation = "23505"

// Versioned is an aggregate whose version counts its recorded events.
type Versioned interface {
	Version() int
	DomainEvents() []domain.DomainEvent
}

// LoadedVersion returns the version the aggregate had when it was read.
// Zero means the aggregate has never been stored.
func LoadedVersion(agg Versioned) int {
	return agg.Version() - len(agg.DomainEvents())
}

// RequireAffected turns an update that matched no row into a conflict error.
func RequireAffected(res Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s was modified concurrently", domain.ErrConflict, entity)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique or primary key violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		case sqliteConstraint:
			return strings.Contains(err.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

// IsNoRows reports whether a single-row query found nothing, for either driver.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
