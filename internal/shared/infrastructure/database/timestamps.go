package database

import (
	"database/sql"
	"fmt"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for TEXT timestamp
// columns so that string comparison matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t for a TEXT timestamp column.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a TEXT timestamp column. RFC 3339 values written by
// other tools are accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// NullTimestamp renders an optional timestamp.
func NullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTimestamp(*t), Valid: true}
}

// ParseNullTimestamp reads an optional TEXT timestamp column.
func ParseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
