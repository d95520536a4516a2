package workshop

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceDTO is the public shape of a workshop service.
type ServiceDTO struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	ImageURL        *string         `json:"image_url,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CreateServiceInput struct {
	Code            string          `json:"code" validate:"required,max=40"`
	Name            string          `json:"name" validate:"required,max=160"`
	Description     *string         `json:"description,omitempty"`
	Category        string          `json:"category" validate:"required,max=80"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"omitempty,gt=0,lte=1440"`
	ImageURL        *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive        *bool           `json:"is_active,omitempty"`
}

type UpdateServiceInput struct {
	Code            *string          `json:"code,omitempty" validate:"omitempty,max=40"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=160"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=80"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
	ImageURL        *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func NewServiceDTO(m *models.WorkshopService) *ServiceDTO {
	return &ServiceDTO{
		ID:              m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Description:     m.Description,
		Category:        m.Category,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		ImageURL:        m.ImageURL,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
