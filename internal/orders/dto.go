package orders

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/angelmondragon/autocenter-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxItemQuantity = 99

// ItemInput references one product or service in an order request.
type ItemInput struct {
	Type     enums.OrderItemType `json:"type" validate:"required,oneof=product service"`
	ID       uuid.UUID           `json:"id" validate:"required"`
	Quantity int                 `json:"quantity" validate:"required,gt=0,lte=99"`
}

type CreateOrderInput struct {
	Items            []ItemInput            `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingMethodID *uuid.UUID             `json:"shipping_method_id,omitempty"`
	ShippingAddress  *types.ShippingAddress `json:"shipping_address,omitempty"`
	CouponCode       *string                `json:"coupon_code,omitempty" validate:"omitempty,max=40"`
	Notes            *string                `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required,oneof=pending paid processing shipped delivered cancelled"`
}

// ListInput carries list filters plus cursor pagination.
type ListInput struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
	Pagination pagination.Params
}

// Actor identifies who triggered a status change.
type Actor struct {
	ID   uuid.UUID
	Role enums.ActorRole
}

type OrderItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	Type      enums.OrderItemType `json:"type"`
	ProductID *uuid.UUID          `json:"product_id,omitempty"`
	ServiceID *uuid.UUID          `json:"service_id,omitempty"`
	Name      string              `json:"name"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
	LineTotal decimal.Decimal     `json:"line_total"`
}

type OrderDTO struct {
	ID                uuid.UUID              `json:"id"`
	Number            string                 `json:"number"`
	CustomerID        uuid.UUID              `json:"customer_id"`
	Status            enums.OrderStatus      `json:"status"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	PromotionDiscount decimal.Decimal        `json:"promotion_discount"`
	CouponDiscount    decimal.Decimal        `json:"coupon_discount"`
	ShippingTotal     decimal.Decimal        `json:"shipping_total"`
	Total             decimal.Decimal        `json:"total"`
	CouponCode        *string                `json:"coupon_code,omitempty"`
	PromotionID       *uuid.UUID             `json:"promotion_id,omitempty"`
	ShippingMethodID  *uuid.UUID             `json:"shipping_method_id,omitempty"`
	ShippingAddress   *types.ShippingAddress `json:"shipping_address,omitempty"`
	Notes             *string                `json:"notes,omitempty"`
	PointsEarned      int64                  `json:"points_earned"`
	PaidAt            *time.Time             `json:"paid_at,omitempty"`
	DeliveredAt       *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time             `json:"cancelled_at,omitempty"`
	Items             []OrderItemDTO         `json:"items,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func NewOrderDTO(m *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                m.ID,
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Subtotal:          m.Subtotal,
		PromotionDiscount: m.PromotionDiscount,
		CouponDiscount:    m.CouponDiscount,
		ShippingTotal:     m.ShippingTotal,
		Total:             m.Total,
		CouponCode:        m.CouponCode,
		PromotionID:       m.PromotionID,
		ShippingMethodID:  m.ShippingMethodID,
		ShippingAddress:   m.ShippingAddress,
		Notes:             m.Notes,
		PointsEarned:      m.PointsEarned,
		PaidAt:            m.PaidAt,
		DeliveredAt:       m.DeliveredAt,
		CancelledAt:       m.CancelledAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:        item.ID,
			Type:      item.ItemType,
			ProductID: item.ProductID,
			ServiceID: item.ServiceID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return dto
}
