package shipping

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MethodDTO struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      *string          `json:"description,omitempty"`
	Carrier          *string          `json:"carrier,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	FreeOver         *decimal.Decimal `json:"free_over,omitempty"`
	EstimatedDaysMin int              `json:"estimated_days_min"`
	EstimatedDaysMax int              `json:"estimated_days_max"`
	IsPickup         bool             `json:"is_pickup"`
	IsActive         bool             `json:"is_active"`
	Position         int              `json:"position"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type CreateMethodInput struct {
	Name             string           `json:"name" validate:"required,max=120"`
	Description      *string          `json:"description,omitempty"`
	Carrier          *string          `json:"carrier,omitempty" validate:"omitempty,max=80"`
	Price            decimal.Decimal  `json:"price"`
	FreeOver         *decimal.Decimal `json:"free_over,omitempty"`
	EstimatedDaysMin int              `json:"estimated_days_min" validate:"gte=0"`
	EstimatedDaysMax int              `json:"estimated_days_max" validate:"gte=0"`
	IsPickup         bool             `json:"is_pickup"`
	IsActive         *bool            `json:"is_active,omitempty"`
	Position         int              `json:"position"`
}

type UpdateMethodInput struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Description      *string          `json:"description,omitempty"`
	Carrier          *string          `json:"carrier,omitempty" validate:"omitempty,max=80"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	FreeOver         *decimal.Decimal `json:"free_over,omitempty"`
	ClearFreeOver    bool             `json:"clear_free_over,omitempty"`
	EstimatedDaysMin *int             `json:"estimated_days_min,omitempty" validate:"omitempty,gte=0"`
	EstimatedDaysMax *int             `json:"estimated_days_max,omitempty" validate:"omitempty,gte=0"`
	IsPickup         *bool            `json:"is_pickup,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
	Position         *int             `json:"position,omitempty"`
}

// QuoteDTO is the shipping cost of one method for a given subtotal.
type QuoteDTO struct {
	MethodID uuid.UUID       `json:"method_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Free     bool            `json:"free"`
}

func NewMethodDTO(m *models.ShippingMethod) *MethodDTO {
	return &MethodDTO{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Carrier:          m.Carrier,
		Price:            m.Price,
		FreeOver:         m.FreeOver,
		EstimatedDaysMin: m.EstimatedDaysMin,
		EstimatedDaysMax: m.EstimatedDaysMax,
		IsPickup:         m.IsPickup,
		IsActive:         m.IsActive,
		Position:         m.Position,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
