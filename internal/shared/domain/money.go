package domain

import "github.com/shopspring/decimal"

// Decimal places stored for money and rates. PostgreSQL columns are
// NUMERIC(12,2) and NUMERIC(5,4); values with more places would be rounded
// on write, so the domain rejects them instead.
const (
	MoneyPlaces = 2
	RatePlaces  = 4
)

// FitsPlaces reports whether d has no significant digits beyond places.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}
