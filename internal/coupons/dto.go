package coupons

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/discount"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponDTO struct {
	ID               uuid.UUID          `json:"id"`
	Code             string             `json:"code"`
	Description      *string            `json:"description,omitempty"`
	DiscountType     enums.DiscountType `json:"discount_type"`
	Value            decimal.Decimal    `json:"value"`
	MaxDiscount      *decimal.Decimal   `json:"max_discount,omitempty"`
	MinCartValue     *decimal.Decimal   `json:"min_cart_value,omitempty"`
	StartsAt         time.Time          `json:"starts_at"`
	EndsAt           *time.Time         `json:"ends_at,omitempty"`
	UsageLimit       *int               `json:"usage_limit,omitempty"`
	UsageCount       int                `json:"usage_count"`
	PerCustomerLimit *int               `json:"per_customer_limit,omitempty"`
	IsActive         bool               `json:"is_active"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type CreateCouponInput struct {
	Code             string             `json:"code" validate:"required,max=40"`
	Description      *string            `json:"description,omitempty"`
	DiscountType     enums.DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value            decimal.Decimal    `json:"value"`
	MaxDiscount      *decimal.Decimal   `json:"max_discount,omitempty"`
	MinCartValue     *decimal.Decimal   `json:"min_cart_value,omitempty"`
	StartsAt         *time.Time         `json:"starts_at,omitempty"`
	EndsAt           *time.Time         `json:"ends_at,omitempty"`
	UsageLimit       *int               `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	PerCustomerLimit *int               `json:"per_customer_limit,omitempty" validate:"omitempty,gt=0"`
	IsActive         *bool              `json:"is_active,omitempty"`
}

// UpdateCouponInput is a partial update. The Patch fields accept an
// explicit null to clear the bound.
type UpdateCouponInput struct {
	Description      *string                      `json:"description,omitempty"`
	Value            *decimal.Decimal             `json:"value,omitempty"`
	MaxDiscount      types.Patch[decimal.Decimal] `json:"max_discount"`
	MinCartValue     types.Patch[decimal.Decimal] `json:"min_cart_value"`
	StartsAt         *time.Time                   `json:"starts_at,omitempty"`
	EndsAt           types.Patch[time.Time]       `json:"ends_at"`
	UsageLimit       *int                         `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	PerCustomerLimit *int                         `json:"per_customer_limit,omitempty" validate:"omitempty,gt=0"`
	IsActive         *bool                        `json:"is_active,omitempty"`
}

// ValidateInput is the public coupon check payload.
type ValidateInput struct {
	Code      string          `json:"code" validate:"required,max=40"`
	CartTotal decimal.Decimal `json:"cartTotal"`
}

type ValidateResult struct {
	Code       string             `json:"code"`
	Type       enums.DiscountType `json:"discount_type"`
	Discount   decimal.Decimal    `json:"discount"`
	FinalTotal decimal.Decimal    `json:"final_total"`
}

// RedeemInput describes one coupon use inside an order transaction.
type RedeemInput struct {
	Code       string
	CustomerID uuid.UUID
	OrderID    uuid.UUID
	CartTotal  decimal.Decimal
}

// Redemption is the applied coupon as seen by the order.
type Redemption struct {
	CouponID uuid.UUID
	Code     string
	Discount decimal.Decimal
}

func NewCouponDTO(m *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:               m.ID,
		Code:             m.Code,
		Description:      m.Description,
		DiscountType:     m.DiscountType,
		Value:            m.Value,
		MaxDiscount:      m.MaxDiscount,
		MinCartValue:     m.MinCartValue,
		StartsAt:         m.StartsAt,
		EndsAt:           m.EndsAt,
		UsageLimit:       m.UsageLimit,
		UsageCount:       m.UsageCount,
		PerCustomerLimit: m.PerCustomerLimit,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ruleFor(m *models.Coupon) discount.Rule {
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
