package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplifit/supplifit/internal/shared/domain"
)

func TestDate_Arithmetic(t *testing.T) {
	d := domain.MustParseDate("2024-01-15")

	assert.Equal(t, "2024-02-14", d.AddDays(30).String())
	assert.Equal(t, "2024-03-01", domain.MustParseDate("2024-02-29").AddDays(1).String())
	assert.Equal(t, 30, d.DaysUntil(d.AddDays(30)))
	assert.Equal(t, -5, d.DaysUntil(domain.MustParseDate("2024-01-10")))
	assert.True(t, domain.MustParseDate("2024-01-10").Before(d))
	assert.Equal(t, d, domain.MaxDate(domain.MustParseDate("2024-01-10"), d))
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	d := domain.DateOf(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, domain.NewDate(2024, time.May, 1), d)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := domain.ParseDate("15/01/2024")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		End domain.Date `json:"end"`
	}

	raw, err := json.Marshal(wrapper{End: domain.NewDate(2024, time.February, 14)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"end":"2024-02-14"}`, string(raw))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"end":"2024-03-01"}`), &w))
	assert.Equal(t, "2024-03-01", w.End.String())
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"text", "2024-01-15", "2024-01-15"},
		{"bytes", []byte("2024-01-15"), "2024-01-15"},
		{"timestamp text", "2024-01-15T00:00:00Z", "2024-01-15"},
		{"time", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d domain.Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d domain.Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestFixedClock(t *testing.T) {
	clock := domain.FixedClockOn(domain.MustParseDate("2024-01-15"))
	assert.Equal(t, "2024-01-15", clock.Today().String())

	clock.Advance(24 * time.Hour)
	assert.Equal(t, "2024-01-16", clock.Today().String())
}
