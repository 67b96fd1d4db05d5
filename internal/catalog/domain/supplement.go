package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

// SupplementType is the product family of a supplement.
type SupplementType string

const (
	TypeProtein    SupplementType = "protein"
	TypePreWorkout SupplementType = "pre_workout"
	TypeBCAA       SupplementType = "bcaa"
	TypeCreatine   SupplementType = "creatine"
	TypeVitamins   SupplementType = "vitamins"
	TypeOther      SupplementType = "other"
)

// SupplementTypes lists the known types in display order.
var SupplementTypes = []SupplementType{TypeProtein, TypePreWorkout, TypeBCAA, TypeCreatine, TypeVitamins, TypeOther}

// IsValid checks if the type is known.
func (t SupplementType) IsValid() bool {
	switch t {
	case TypeProtein, TypePreWorkout, TypeBCAA, TypeCreatine, TypeVitamins, TypeOther:
		return true
	default:
		return false
	}
}

// ParseSupplementType converts user input to a SupplementType. Empty input
// is TypeOther.
func ParseSupplementType(s string) (SupplementType, error) {
	if s == "" {
		return TypeOther, nil
	}
	t := SupplementType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

const (
	maxSupplementName = 200
	maxBrand          = 100
	maxServingSize    = 50
)

// SupplementDetails are the descriptive fields of a supplement.
type SupplementDetails struct {
	Name              string
	Description       string
	Brand             string
	Type              SupplementType
	ServingSize       string
	Ingredients       string
	Benefits          string
	UsageInstructions string
}

func (d SupplementDetails) normalize() (SupplementDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Brand = strings.TrimSpace(d.Brand)
	d.Description = strings.TrimSpace(d.Description)
	d.ServingSize = strings.TrimSpace(d.ServingSize)
	d.Ingredients = strings.TrimSpace(d.Ingredients)
	d.Benefits = strings.TrimSpace(d.Benefits)
	d.UsageInstructions = strings.TrimSpace(d.UsageInstructions)
	if d.Type == "" {
		d.Type = TypeOther
	}

	switch {
	case d.Name == "":
		return d, ErrEmptySupplementName
	case d.Brand == "":
		return d, ErrEmptyBrand
	case !d.Type.IsValid():
		return d, fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	for _, limit := range []struct {
		field string
		value string
		max   int
	}{
		{"name", d.Name, maxSupplementName},
		{"brand", d.Brand, maxBrand},
		{"serving size", d.ServingSize, maxServingSize},
	} {
		if len([]rune(limit.value)) > limit.max {
			return d, fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, limit.field, limit.max)
		}
	}
	return d, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !sharedDomain.FitsPlaces(price, sharedDomain.MoneyPlaces) {
		return fmt.Errorf("%w: got %s", ErrPricePrecision, price)
	}
	return nil
}

// Supplement is a product listed in the catalog.
type Supplement struct {
	sharedDomain.BaseAggregateRoot
	categoryID uuid.UUID
	details    SupplementDetails
	price      decimal.Decimal
	available  bool
}

// NewSupplement creates an available supplement in categoryID.
func NewSupplement(categoryID uuid.UUID, details SupplementDetails, price decimal.Decimal, now time.Time) (*Supplement, error) {
	if categoryID == uuid.Nil {
		return nil, ErrMissingCategory
	}
	details, err := details.normalize()
	if err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	s := &Supplement{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		categoryID:        categoryID,
		details:           details,
		price:             price,
		available:         true,
	}
	s.AddDomainEvent(NewSupplementCreated(s, now))
	return s, nil
}

// RehydrateSupplement recreates a supplement from persisted state.
func RehydrateSupplement(
	id, categoryID uuid.UUID,
	details SupplementDetails,
	price decimal.Decimal,
	available bool,
	version int,
	createdAt, updatedAt time.Time,
) *Supplement {
	return &Supplement{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		categoryID: categoryID,
		details:    details,
		price:      price,
		available:  available,
	}
}

func (s *Supplement) CategoryID() uuid.UUID      { return s.categoryID }
func (s *Supplement) Details() SupplementDetails { return s.details }
func (s *Supplement) Name() string               { return s.details.Name }
func (s *Supplement) Brand() string              { return s.details.Brand }
func (s *Supplement) Type() SupplementType       { return s.details.Type }
func (s *Supplement) Price() decimal.Decimal     { return s.price }
func (s *Supplement) Available() bool            { return s.available }

// SupplementUpdate lists editable fields. Nil fields are left unchanged.
type SupplementUpdate struct {
	CategoryID        *uuid.UUID
	Name              *string
	Description       *string
	Brand             *string
	Type              *SupplementType
	ServingSize       *string
	Ingredients       *string
	Benefits          *string
	UsageInstructions *string
	Price             *decimal.Decimal
	Available         *bool
}

// Update applies the non-nil fields of u. Availability changes record a
// SupplementAvailabilityChanged event; other changes record
// SupplementUpdated. Unchanged values record nothing.
func (s *Supplement) Update(u SupplementUpdate, now time.Time) error {
	next := s.details
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&next.Name, u.Name)
	set(&next.Description, u.Description)
	set(&next.Brand, u.Brand)
	set(&next.ServingSize, u.ServingSize)
	set(&next.Ingredients, u.Ingredients)
	set(&next.Benefits, u.Benefits)
	set(&next.UsageInstructions, u.UsageInstructions)
	if u.Type != nil {
		next.Type = *u.Type
	}
	next, err := next.normalize()
	if err != nil {
		return err
	}

	categoryID := s.categoryID
	if u.CategoryID != nil {
		if *u.CategoryID == uuid.Nil {
			return ErrMissingCategory
		}
		categoryID = *u.CategoryID
	}
	price := s.price
	if u.Price != nil {
		if err := validatePrice(*u.Price); err != nil {
			return err
		}
		price = *u.Price
	}

	var changed []string
	for _, f := range []struct {
		name string
		diff bool
	}{
		{"category", categoryID != s.categoryID},
		{"name", next.Name != s.details.Name},
		{"description", next.Description != s.details.Description},
		{"brand", next.Brand != s.details.Brand},
		{"type", next.Type != s.details.Type},
		{"serving_size", next.ServingSize != s.details.ServingSize},
		{"ingredients", next.Ingredients != s.details.Ingredients},
		{"benefits", next.Benefits != s.details.Benefits},
		{"usage_instructions", next.UsageInstructions != s.details.UsageInstructions},
		{"price", !price.Equal(s.price)},
	} {
		if f.diff {
			changed = append(changed, f.name)
		}
	}

	if len(changed) > 0 {
		s.categoryID = categoryID
		s.details = next
		s.price = price
		s.AddDomainEvent(NewSupplementUpdated(s, changed, now))
	}
	if u.Available != nil && *u.Available != s.available {
		s.available = *u.Available
		s.AddDomainEvent(NewSupplementAvailabilityChanged(s, now))
	}
	return nil
}

// MarkDeleted records the deletion. The repository removes the row.
func (s *Supplement) MarkDeleted(now time.Time) {
	s.AddDomainEvent(NewSupplementDeleted(s, now))
}
