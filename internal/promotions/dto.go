package promotions

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/discount"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromotionDTO struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	DiscountType enums.DiscountType `json:"discount_type"`
	Value        decimal.Decimal    `json:"value"`
	MaxDiscount  *decimal.Decimal   `json:"max_discount,omitempty"`
	MinCartValue *decimal.Decimal   `json:"min_cart_value,omitempty"`
	StartsAt     time.Time          `json:"starts_at"`
	EndsAt       *time.Time         `json:"ends_at,omitempty"`
	UsageLimit   *int               `json:"usage_limit,omitempty"`
	UsageCount   int                `json:"usage_count"`
	Priority     int                `json:"priority"`
	BannerURL    *string            `json:"banner_url,omitempty"`
	Rule         *string            `json:"rule,omitempty"`
	IsActive     bool               `json:"is_active"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type CreatePromotionInput struct {
	Name         string             `json:"name" validate:"required,max=160"`
	Description  *string            `json:"description,omitempty"`
	DiscountType enums.DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value        decimal.Decimal    `json:"value"`
	MaxDiscount  *decimal.Decimal   `json:"max_discount,omitempty"`
	MinCartValue *decimal.Decimal   `json:"min_cart_value,omitempty"`
	StartsAt     *time.Time         `json:"starts_at,omitempty"`
	EndsAt       *time.Time         `json:"ends_at,omitempty"`
	UsageLimit   *int               `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	Priority     int                `json:"priority"`
	BannerURL    *string            `json:"banner_url,omitempty" validate:"omitempty,url"`
	Rule         *string            `json:"rule,omitempty" validate:"omitempty,max=2000"`
	IsActive     *bool              `json:"is_active,omitempty"`
}

// UpdatePromotionInput is a partial update; an explicit null clears the
// Patch fields.
type UpdatePromotionInput struct {
	Name         *string                      `json:"name,omitempty" validate:"omitempty,max=160"`
	Description  *string                      `json:"description,omitempty"`
	Value        *decimal.Decimal             `json:"value,omitempty"`
	MaxDiscount  types.Patch[decimal.Decimal] `json:"max_discount"`
	MinCartValue types.Patch[decimal.Decimal] `json:"min_cart_value"`
	StartsAt     *time.Time                   `json:"starts_at,omitempty"`
	EndsAt       types.Patch[time.Time]       `json:"ends_at"`
	UsageLimit   *int                         `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	Priority     *int                         `json:"priority,omitempty"`
	BannerURL    *string                      `json:"banner_url,omitempty" validate:"omitempty,url"`
	Rule         *string                      `json:"rule,omitempty" validate:"omitempty,max=2000"`
	IsActive     *bool                        `json:"is_active,omitempty"`
}

// Applied is the promotion chosen for a cart and the discount it yields.
type Applied struct {
	PromotionID uuid.UUID       `json:"promotion_id"`
	Name        string          `json:"name"`
	Priority    int             `json:"-"`
	Discount    decimal.Decimal `json:"discount"`
}

func NewPromotionDTO(m *models.Promotion) *PromotionDTO {
	return &PromotionDTO{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		DiscountType: m.DiscountType,
		Value:        m.Value,
		MaxDiscount:  m.MaxDiscount,
		MinCartValue: m.MinCartValue,
		StartsAt:     m.StartsAt,
		EndsAt:       m.EndsAt,
		UsageLimit:   m.UsageLimit,
		UsageCount:   m.UsageCount,
		Priority:     m.Priority,
		BannerURL:    m.BannerURL,
		Rule:         m.Rule,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ruleFor(m *models.Promotion) discount.Rule {
	return discount.Rule{
		Type:         m.DiscountType,
		Value:        m.Value,
		MaxDiscount:  m.MaxDiscount,
		MinCartValue: m.MinCartValue,
		StartsAt:     m.StartsAt,
		EndsAt:       m.EndsAt,
		UsageLimit:   m.UsageLimit,
		UsageCount:   m.UsageCount,
		Active:       m.IsActive,
	}
}
