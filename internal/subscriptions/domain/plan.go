package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

// PlanType is the commercial tier of a subscription plan.
type PlanType string

const (
	PlanBasic PlanType = "basic"
	PlanPro   PlanType = "pro"
	PlanElite PlanType = "elite"
)

// IsValid checks if the plan type is known.
func (t PlanType) IsValid() bool {
	switch t {
	case PlanBasic, PlanPro, PlanElite:
		return true
	default:
		return false
	}
}

// ParsePlanType converts user input to a PlanType.
func ParsePlanType(s string) (PlanType, error) {
	t := PlanType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlanType, s)
	}
	return t, nil
}

// Plan is a catalog entry users subscribe to.
type Plan struct {
	sharedDomain.BaseAggregateRoot
	name           string
	planType       PlanType
	description    string
	price          decimal.Decimal
	unitsPerPeriod int
	features       []string
	active         bool
}

// NewPlan creates an active plan.
func NewPlan(name string, planType PlanType, description string, price decimal.Decimal, unitsPerPeriod int, features []string, now time.Time) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPlanName
	}
	if !planType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlanType, planType)
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if unitsPerPeriod < 0 {
		return nil, ErrNegativeUnits
	}

	plan := &Plan{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		name:              name,
		planType:          planType,
		description:       strings.TrimSpace(description),
		price:             price,
		unitsPerPeriod:    unitsPerPeriod,
		features:          cleanFeatures(features),
		active:            true,
	}
	plan.AddDomainEvent(NewPlanCreated(plan, now))
	return plan, nil
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

func cleanFeatures(features []string) []string {
	cleaned := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			cleaned = append(cleaned, f)
		}
	}
	return cleaned
}

// RehydratePlan recreates a plan from persisted state.
func RehydratePlan(
	id uuid.UUID,
	name string,
	planType PlanType,
	description string,
	price decimal.Decimal,
	unitsPerPeriod int,
	features []string,
	active bool,
	version int,
	createdAt, updatedAt time.Time,
) *Plan {
	if features == nil {
		features = []string{}
	}
	return &Plan{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		name:           name,
		planType:       planType,
		description:    description,
		price:          price,
		unitsPerPeriod: unitsPerPeriod,
		features:       features,
		active:         active,
	}
}

func (p *Plan) Name() string           { return p.name }
func (p *Plan) PlanType() PlanType     { return p.planType }
func (p *Plan) Description() string    { return p.description }
func (p *Plan) Price() decimal.Decimal { return p.price }
func (p *Plan) UnitsPerPeriod() int    { return p.unitsPerPeriod }
func (p *Plan) Features() []string     { return slices.Clone(p.features) }
func (p *Plan) IsActive() bool         { return p.active }

// PlanUpdate lists editable plan fields. Nil fields are left unchanged.
// Subscriptions already sold keep the price and units they were sold with.
type PlanUpdate struct {
	Name           *string
	PlanType       *PlanType
	Description    *string
	Price          *decimal.Decimal
	UnitsPerPeriod *int
	Features       *[]string
}

// Update applies the non-nil fields of u. An update that changes nothing
// records no event.
func (p *Plan) Update(u PlanUpdate, now time.Time) error {
	name, planType, description := p.name, p.planType, p.description
	price, units, features := p.price, p.unitsPerPeriod, p.features

	if u.Name != nil {
		if name = strings.TrimSpace(*u.Name); name == "" {
			return ErrEmptyPlanName
		}
	}
	if u.PlanType != nil {
		if planType = *u.PlanType; !planType.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidPlanType, planType)
		}
	}
	if u.Description != nil {
		description = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		if err := validatePrice(*u.Price); err != nil {
			return err
		}
		price = *u.Price
	}
	if u.UnitsPerPeriod != nil {
		if units = *u.UnitsPerPeriod; units < 0 {
			return ErrNegativeUnits
		}
	}
	if u.Features != nil {
		features = cleanFeatures(*u.Features)
	}

	var changed []string
	if name != p.name {
		changed = append(changed, "name")
	}
	if planType != p.planType {
		changed = append(changed, "plan_type")
	}
	if description != p.description {
		changed = append(changed, "description")
	}
	if !price.Equal(p.price) {
		changed = append(changed, "price")
	}
	if units != p.unitsPerPeriod {
		changed = append(changed, "units_per_period")
	}
	if !slices.Equal(features, p.features) {
		changed = append(changed, "features")
	}
	if len(changed) == 0 {
		return nil
	}

	p.name, p.planType, p.description = name, planType, description
	p.price, p.unitsPerPeriod, p.features = price, units, features
	p.AddDomainEvent(NewPlanUpdated(p, changed, now))
	return nil
}

// SetActive opens or closes the plan to new subscriptions. Existing
// subscriptions and their renewals are unaffected. Setting the current
// state is a no-op.
func (p *Plan) SetActive(active bool, now time.Time) {
	if p.active == active {
		return
	}
	p.active = active
	p.AddDomainEvent(NewPlanAvailabilityChanged(p, now))
}
