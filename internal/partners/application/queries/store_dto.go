// Package queries holds the partner store read handlers.
package queries

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/partners/domain"
)

// StoreDTO is the read model of a partner store.
type StoreDTO struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	Tier               string    `json:"tier"`
	CommissionRate     string    `json:"commission_rate"`
	Featured           bool      `json:"featured"`
	PrioritySupport    bool      `json:"priority_support"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toStoreDTO(s *domain.Store) *StoreDTO {
	d := s.Details()
	return &StoreDTO{
		ID:                 s.ID(),
		OwnerID:            s.OwnerID(),
		Name:               d.Name,
		RegistrationNumber: d.RegistrationNumber,
		Address:            d.Address,
		Phone:              d.Phone,
		Email:              d.Email,
		Description:        d.Description,
		Status:             string(s.Status()),
		Tier:               string(s.Tier()),
		CommissionRate:     s.CommissionRate().String(),
		Featured:           s.Featured(),
		PrioritySupport:    s.PrioritySupport(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

func toStoreDTOs(stores []*domain.Store) []*StoreDTO {
	dtos := make([]*StoreDTO, len(stores))
	for i, s := range stores {
		dtos[i] = toStoreDTO(s)
	}
	return dtos
}
