package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

const (
	subscriptionAggregate = "Subscription"
	planAggregate         = "SubscriptionPlan"
)

// Routing keys for subscription events.
const (
	RoutingKeyPlanCreated              = "subscriptions.plan.created"
	RoutingKeyPlanUpdated              = "subscriptions.plan.updated"
	RoutingKeyPlanActivated            = "subscriptions.plan.activated"
	RoutingKeyPlanDeactivated          = "subscriptions.plan.deactivated"
	RoutingKeySubscriptionCreated      = "subscriptions.subscription.created"
	RoutingKeySubscriptionActivated    = "subscriptions.subscription.activated"
	RoutingKeySubscriptionCancelled    = "subscriptions.subscription.cancelled"
	RoutingKeySubscriptionRenewed      = "subscriptions.subscription.renewed"
	RoutingKeyUnitConsumed             = "subscriptions.subscription.unit_consumed"
	RoutingKeySubscriptionExpired      = "subscriptions.subscription.expired"
	RoutingKeySubscriptionExpiringSoon = "subscriptions.subscription.expiring_soon"
)

// PlanCreated is emitted when a plan is added to the catalog.
type PlanCreated struct {
	sharedDomain.BaseEvent
	PlanID         uuid.UUID `json:"plan_id"`
	Name           string    `json:"name"`
	PlanType       string    `json:"plan_type"`
	Price          string    `json:"price"`
	UnitsPerPeriod int       `json:"units_per_period"`
}

// NewPlanCreated creates a PlanCreated event.
func NewPlanCreated(p *Plan, at time.Time) *PlanCreated {
	return &PlanCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(p.ID(), planAggregate, RoutingKeyPlanCreated, at),
		PlanID:         p.ID(),
		Name:           p.Name(),
		PlanType:       string(p.PlanType()),
		Price:          p.Price().String(),
		UnitsPerPeriod: p.UnitsPerPeriod(),
	}
}

// PlanUpdated is emitted when catalog fields of a plan change.
type PlanUpdated struct {
	sharedDomain.BaseEvent
	PlanID         uuid.UUID `json:"plan_id"`
	Fields         []string  `json:"fields"`
	Price          string    `json:"price"`
	UnitsPerPeriod int       `json:"units_per_period"`
}

// NewPlanUpdated creates a PlanUpdated event.
func NewPlanUpdated(p *Plan, fields []string, at time.Time) *PlanUpdated {
	return &PlanUpdated{
		BaseEvent:      sharedDomain.NewBaseEvent(p.ID(), planAggregate, RoutingKeyPlanUpdated, at),
		PlanID:         p.ID(),
		Fields:         fields,
		Price:          p.Price().String(),
		UnitsPerPeriod: p.UnitsPerPeriod(),
	}
}

// PlanAvailabilityChanged is emitted when a plan is opened or closed to new
// subscriptions. The routing key tells which.
type PlanAvailabilityChanged struct {
	sharedDomain.BaseEvent
	PlanID uuid.UUID `json:"plan_id"`
	Active bool      `json:"active"`
}

// NewPlanAvailabilityChanged creates a PlanAvailabilityChanged event.
func NewPlanAvailabilityChanged(p *Plan, at time.Time) *PlanAvailabilityChanged {
	key := RoutingKeyPlanDeactivated
	if p.IsActive() {
		key = RoutingKeyPlanActivated
	}
	return &PlanAvailabilityChanged{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), planAggregate, key, at),
		PlanID:    p.ID(),
		Active:    p.IsActive(),
	}
}

// SubscriptionSnapshot carries the fields shared by subscription events.
type SubscriptionSnapshot struct {
	SubscriptionID uuid.UUID         `json:"subscription_id"`
	UserID         uuid.UUID         `json:"user_id"`
	PlanID         uuid.UUID         `json:"plan_id"`
	Status         string            `json:"status"`
	StartDate      sharedDomain.Date `json:"start_date"`
	EndDate        sharedDomain.Date `json:"end_date"`
	RemainingUnits int               `json:"remaining_units"`
}

func snapshot(s *Subscription) SubscriptionSnapshot {
	return SubscriptionSnapshot{
		SubscriptionID: s.ID(),
		UserID:         s.UserID(),
		PlanID:         s.PlanID(),
		Status:         string(s.Status()),
		StartDate:      s.StartDate(),
		EndDate:        s.EndDate(),
		RemainingUnits: s.RemainingUnits(),
	}
}

// SubscriptionCreated is emitted when a subscription is opened.
type SubscriptionCreated struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
	PricePaid string `json:"price_paid"`
}

// NewSubscriptionCreated creates a SubscriptionCreated event.
func NewSubscriptionCreated(s *Subscription, at time.Time) *SubscriptionCreated {
	return &SubscriptionCreated{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionCreated, at),
		SubscriptionSnapshot: snapshot(s),
		PricePaid:            s.PricePaid().String(),
	}
}

// SubscriptionActivated is emitted when a pending subscription starts.
type SubscriptionActivated struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
}

// NewSubscriptionActivated creates a SubscriptionActivated event.
func NewSubscriptionActivated(s *Subscription, at time.Time) *SubscriptionActivated {
	return &SubscriptionActivated{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionActivated, at),
		SubscriptionSnapshot: snapshot(s),
	}
}

// SubscriptionCancelled is emitted when a subscription is cancelled.
type SubscriptionCancelled struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
	PreviousStatus string `json:"previous_status"`
}

// NewSubscriptionCancelled creates a SubscriptionCancelled event.
func NewSubscriptionCancelled(s *Subscription, previous Status, at time.Time) *SubscriptionCancelled {
	return &SubscriptionCancelled{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionCancelled, at),
		SubscriptionSnapshot: snapshot(s),
		PreviousStatus:       string(previous),
	}
}

// SubscriptionRenewed is emitted on the successor created by a renewal.
type SubscriptionRenewed struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
	RenewedFromID uuid.UUID `json:"renewed_from_id"`
	PricePaid     string    `json:"price_paid"`
}

// NewSubscriptionRenewed creates a SubscriptionRenewed event.
func NewSubscriptionRenewed(s *Subscription, at time.Time) *SubscriptionRenewed {
	ev := &SubscriptionRenewed{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionRenewed, at),
		SubscriptionSnapshot: snapshot(s),
		PricePaid:            s.PricePaid().String(),
	}
	if s.RenewedFromID() != nil {
		ev.RenewedFromID = *s.RenewedFromID()
	}
	return ev
}

// UnitConsumed is emitted when a unit is used.
type UnitConsumed struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
}

// NewUnitConsumed creates a UnitConsumed event.
func NewUnitConsumed(s *Subscription, at time.Time) *UnitConsumed {
	return &UnitConsumed{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeyUnitConsumed, at),
		SubscriptionSnapshot: snapshot(s),
	}
}

// SubscriptionExpired is emitted by the expiry sweep.
type SubscriptionExpired struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
}

// NewSubscriptionExpired creates a SubscriptionExpired event.
func NewSubscriptionExpired(s *Subscription, at time.Time) *SubscriptionExpired {
	return &SubscriptionExpired{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionExpired, at),
		SubscriptionSnapshot: snapshot(s),
	}
}

// SubscriptionExpiringSoon announces that an active subscription ends
// within the notice window. It is published directly, not stored.
type SubscriptionExpiringSoon struct {
	sharedDomain.BaseEvent
	SubscriptionSnapshot
	DaysLeft       int  `json:"days_left"`
	RenewalEnabled bool `json:"renewal_enabled"`
}

// NewSubscriptionExpiringSoon creates a SubscriptionExpiringSoon notice.
func NewSubscriptionExpiringSoon(s *Subscription, today sharedDomain.Date, at time.Time) *SubscriptionExpiringSoon {
	return &SubscriptionExpiringSoon{
		BaseEvent:            sharedDomain.NewBaseEvent(s.ID(), subscriptionAggregate, RoutingKeySubscriptionExpiringSoon, at),
		SubscriptionSnapshot: snapshot(s),
		DaysLeft:             today.DaysUntil(s.EndDate()),
		RenewalEnabled:       s.RenewalEnabled(),
	}
}
