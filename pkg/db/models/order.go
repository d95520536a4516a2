package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
)

// Order is a customer purchase of products and/or workshop services.
type Order struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number            string                 `gorm:"column:number;not null;uniqueIndex"`
	CustomerID        uuid.UUID              `gorm:"column:customer_id;type:uuid;not null"`
	Status            enums.OrderStatus      `gorm:"column:status;type:text;not null;default:pending"`
	Subtotal          decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	PromotionDiscount decimal.Decimal        `gorm:"column:promotion_discount;type:numeric(12,2);not null;default:0"`
	CouponDiscount    decimal.Decimal        `gorm:"column:coupon_discount;type:numeric(12,2);not null;default:0"`
	ShippingTotal     decimal.Decimal        `gorm:"column:shipping_total;type:numeric(12,2);not null;default:0"`
	Total             decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	CouponID          *uuid.UUID             `gorm:"column:coupon_id;type:uuid"`
	CouponCode        *string                `gorm:"column:coupon_code"`
	PromotionID       *uuid.UUID             `gorm:"column:promotion_id;type:uuid"`
	ShippingMethodID  *uuid.UUID             `gorm:"column:shipping_method_id;type:uuid"`
	ShippingAddress   *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb"`
	Notes             *string                `gorm:"column:notes"`
	PointsEarned      int64                  `gorm:"column:points_earned;not null;default:0"`
	PaidAt            *time.Time             `gorm:"column:paid_at"`
	DeliveredAt       *time.Time             `gorm:"column:delivered_at"`
	CancelledAt       *time.Time             `gorm:"column:cancelled_at"`
	Items             []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots the name and price of what was bought.
type OrderItem struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ItemType  enums.OrderItemType `gorm:"column:item_type;type:text;not null"`
	ProductID *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	ServiceID *uuid.UUID          `gorm:"column:service_id;type:uuid"`
	Name      string              `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int                 `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal     `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
