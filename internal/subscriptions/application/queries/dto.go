// Package queries holds the plan and subscription read handlers.
package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// PlanDTO is the read model of a plan.
type PlanDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	PlanType       string          `json:"plan_type"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	UnitsPerPeriod int             `json:"units_per_period"`
	Features       []string        `json:"features"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SubscriptionDTO is the read model of a subscription.
type SubscriptionDTO struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	PlanID         uuid.UUID         `json:"plan_id"`
	Status         string            `json:"status"`
	StartDate      sharedDomain.Date `json:"start_date"`
	EndDate        sharedDomain.Date `json:"end_date"`
	RemainingUnits int               `json:"remaining_units"`
	RenewalEnabled bool              `json:"renewal_enabled"`
	PricePaid      decimal.Decimal   `json:"price_paid"`
	RenewedFromID  *uuid.UUID        `json:"renewed_from_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToPlanDTO maps a plan to its read model.
func ToPlanDTO(p *domain.Plan) *PlanDTO {
	return &PlanDTO{
		ID:             p.ID(),
		Name:           p.Name(),
		PlanType:       string(p.PlanType()),
		Description:    p.Description(),
		Price:          p.Price(),
		UnitsPerPeriod: p.UnitsPerPeriod(),
		Features:       p.Features(),
		Active:         p.IsActive(),
		CreatedAt:      p.CreatedAt(),
	}
}

// ToSubscriptionDTO maps a subscription to its read model.
func ToSubscriptionDTO(s *domain.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:             s.ID(),
		UserID:         s.UserID(),
		PlanID:         s.PlanID(),
		Status:         string(s.Status()),
		StartDate:      s.StartDate(),
		EndDate:        s.EndDate(),
		RemainingUnits: s.RemainingUnits(),
		RenewalEnabled: s.RenewalEnabled(),
		PricePaid:      s.PricePaid(),
		RenewedFromID:  s.RenewedFromID(),
		CreatedAt:      s.CreatedAt(),
		UpdatedAt:      s.UpdatedAt(),
	}
}

// ToSubscriptionDTOs maps a list of subscriptions.
func ToSubscriptionDTOs(subs []*domain.Subscription) []*SubscriptionDTO {
	dtos := make([]*SubscriptionDTO, len(subs))
	for i, s := range subs {
		dtos[i] = ToSubscriptionDTO(s)
	}
	return dtos
}
