package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/supplifit/supplifit/internal/shared/domain"
)

func TestFitsPlaces(t *testing.T) {
	tests := []struct {
		value  string
		places int32
		want   bool
	}{
		{"149.90", domain.MoneyPlaces, true},
		{"149.900000", domain.MoneyPlaces, true},
		{"150", domain.MoneyPlaces, true},
		{"9.999", domain.MoneyPlaces, false},
		{"0.001", domain.MoneyPlaces, false},
		{"-10.005", domain.MoneyPlaces, false},
		{"0.0525", domain.RatePlaces, true},
		{"0.05255", domain.RatePlaces, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FitsPlaces(decimal.RequireFromString(tt.value), tt.places))
		})
	}
}
