package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

var listedAt = time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)

func wheyDetails() SupplementDetails {
	return SupplementDetails{
		Name:        " Whey Isolate 900g ",
		Description: "Fast absorbing whey protein isolate",
		Brand:       "Growth",
		Type:        TypeProtein,
		ServingSize: "30g",
		Ingredients: "whey protein isolate, cocoa",
	}
}

func TestNewSupplement(t *testing.T) {
	categoryID := uuid.New()
	s, err := NewSupplement(categoryID, wheyDetails(), decimal.RequireFromString("189.90"), listedAt)
	require.NoError(t, err)

	assert.Equal(t, "Whey Isolate 900g", s.Name())
	assert.Equal(t, TypeProtein, s.Type())
	assert.Equal(t, categoryID, s.CategoryID())
	assert.True(t, s.Available())
	require.Len(t, s.DomainEvents(), 1)
	created := s.DomainEvents()[0].(*SupplementCreated)
	assert.Equal(t, "189.9", created.Price)

	untyped := wheyDetails()
	untyped.Type = ""
	s, err = NewSupplement(categoryID, untyped, decimal.Zero, listedAt)
	require.NoError(t, err)
	assert.Equal(t, TypeOther, s.Type())
}

func TestNewSupplement_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SupplementDetails)
		cat    uuid.UUID
		price  string
		err    error
	}{
		{"missing category", func(*SupplementDetails) {}, uuid.Nil, "10", ErrMissingCategory},
		{"empty name", func(d *SupplementDetails) { d.Name = " " }, uuid.New(), "10", ErrEmptySupplementName},
		{"empty brand", func(d *SupplementDetails) { d.Brand = "" }, uuid.New(), "10", ErrEmptyBrand},
		{"unknown type", func(d *SupplementDetails) { d.Type = "gummies" }, uuid.New(), "10", ErrInvalidType},
		{"long serving size", func(d *SupplementDetails) { d.ServingSize = strings.Repeat("g", 51) }, uuid.New(), "10", ErrFieldTooLong},
		{"negative price", func(*SupplementDetails) {}, uuid.New(), "-1", ErrNegativePrice},
		{"sub-cent price", func(*SupplementDetails) {}, uuid.New(), "10.001", ErrPricePrecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := wheyDetails()
			tt.mutate(&d)
			_, err := NewSupplement(tt.cat, d, decimal.RequireFromString(tt.price), listedAt)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		})
	}
}

func TestSupplement_Update(t *testing.T) {
	s, err := NewSupplement(uuid.New(), wheyDetails(), decimal.RequireFromString("189.90"), listedAt)
	require.NoError(t, err)
	s.ClearDomainEvents()
	later := listedAt.Add(time.Hour)

	price := decimal.RequireFromString("179.90")
	off := false
	require.NoError(t, s.Update(SupplementUpdate{Price: &price, Available: &off}, later))
	assert.True(t, price.Equal(s.Price()))
	assert.False(t, s.Available())

	events := s.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, []string{"price"}, events[0].(*SupplementUpdated).Fields)
	assert.Equal(t, RoutingKeySupplementUnavailable, events[1].RoutingKey())

	t.Run("unchanged values record nothing", func(t *testing.T) {
		s.ClearDomainEvents()
		brand := " Growth "
		require.NoError(t, s.Update(SupplementUpdate{Brand: &brand, Available: &off}, later))
		assert.Empty(t, s.DomainEvents())
	})

	t.Run("invalid values leave the supplement untouched", func(t *testing.T) {
		bad := SupplementType("gummies")
		assert.ErrorIs(t, s.Update(SupplementUpdate{Type: &bad, Price: &price}, later), ErrInvalidType)
		none := uuid.Nil
		assert.ErrorIs(t, s.Update(SupplementUpdate{CategoryID: &none}, later), ErrMissingCategory)
		assert.Equal(t, TypeProtein, s.Type())
	})
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("  Protein ", "Whey, casein and plant blends", listedAt)
	require.NoError(t, err)
	assert.Equal(t, "Protein", c.Name())
	require.Len(t, c.DomainEvents(), 1)
	assert.Equal(t, RoutingKeyCategoryCreated, c.DomainEvents()[0].RoutingKey())

	_, err = NewCategory("", "", listedAt)
	assert.ErrorIs(t, err, ErrEmptyCategoryName)
	_, err = NewCategory(strings.Repeat("x", 101), "", listedAt)
	assert.ErrorIs(t, err, ErrFieldTooLong)
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("-price")
	require.NoError(t, err)
	assert.Equal(t, OrderByPrice, o.Field())
	assert.True(t, o.Descending())

	o, err = ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderByName, o)

	_, err = ParseOrdering("rating")
	assert.ErrorIs(t, err, ErrInvalidOrdering)

	_, err = ParseSupplementType("PROTEIN")
	assert.ErrorIs(t, err, ErrInvalidType)
}
