package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

// Coupon is a code customers type at checkout.
type Coupon struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string             `gorm:"column:code;not null;uniqueIndex"`
	Description      *string            `gorm:"column:description"`
	DiscountType     enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	Value            decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MaxDiscount      *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	MinCartValue     *decimal.Decimal   `gorm:"column:min_cart_value;type:numeric(12,2)"`
	StartsAt         time.Time          `gorm:"column:starts_at;not null"`
	EndsAt           *time.Time         `gorm:"column:ends_at"`
	UsageLimit       *int               `gorm:"column:usage_limit"`
	UsageCount       int                `gorm:"column:usage_count;not null;default:0"`
	PerCustomerLimit *int               `gorm:"column:per_customer_limit"`
	IsActive         bool               `gorm:"column:is_active;not null"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// CouponRedemption ties one coupon use to the order that consumed it.
type CouponRedemption struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID   uuid.UUID       `gorm:"column:coupon_id;type:uuid;not null"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Promotion is an automatic discount applied to qualifying carts.
type Promotion struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Description  *string            `gorm:"column:description"`
	DiscountType enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	Value        decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MaxDiscount  *decimal.Decimal   `gorm:"column:max_discount;type:numeric(12,2)"`
	MinCartValue *decimal.Decimal   `gorm:"column:min_cart_value;type:numeric(12,2)"`
	StartsAt     time.Time          `gorm:"column:starts_at;not null"`
	EndsAt       *time.Time         `gorm:"column:ends_at"`
	UsageLimit   *int               `gorm:"column:usage_limit"`
	UsageCount   int                `gorm:"column:usage_count;not null;default:0"`
	Priority     int                `gorm:"column:priority;not null;default:0"`
	BannerURL    *string            `gorm:"column:banner_url"`
	Rule         *string            `gorm:"column:rule"`
	IsActive     bool               `gorm:"column:is_active;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
