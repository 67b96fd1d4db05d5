package database

import (
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards in s. Pair it with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Placeholder returns the n-th bind parameter, counting from 1.
func (d Driver) Placeholder(n int) string {
	if d == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Args collects bind values and hands out matching placeholders, so one
// query builder serves both drivers.
type Args struct {
	driver Driver
	values []any
}

// NewArgs creates an empty argument list for driver.
func NewArgs(driver Driver) *Args {
	return &Args{driver: driver}
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return a.driver.Placeholder(len(a.values))
}

// Values returns the collected bind values.
func (a *Args) Values() []any {
	return a.values
}
