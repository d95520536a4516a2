package payloads

import (
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is emitted when a customer places an order.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	Number      string          `json:"number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	CouponCode  *string         `json:"coupon_code,omitempty"`
	PromotionID *uuid.UUID      `json:"promotion_id,omitempty"`
}

// OrderStatusChangedEvent is emitted on every admin or customer transition.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	Number     string            `json:"number"`
	CustomerID uuid.UUID         `json:"customer_id"`
	From       enums.OrderStatus `json:"from"`
	To         enums.OrderStatus `json:"to"`
}

// LoyaltyPointsEvent covers both earn and redeem ledger writes.
type LoyaltyPointsEvent struct {
	CustomerID    uuid.UUID          `json:"customer_id"`
	TransactionID uuid.UUID          `json:"transaction_id"`
	Points        int64              `json:"points"`
	BalanceAfter  int64              `json:"balance_after"`
	Level         enums.LoyaltyLevel `json:"level"`
	OrderID       *uuid.UUID         `json:"order_id,omitempty"`
	RewardID      *uuid.UUID         `json:"reward_id,omitempty"`
}

// SupportTicketCreatedEvent notifies staff of a new ticket.
type SupportTicketCreatedEvent struct {
	TicketID   uuid.UUID            `json:"ticket_id"`
	CustomerID uuid.UUID            `json:"customer_id"`
	Subject    string               `json:"subject"`
	Category   enums.TicketCategory `json:"category"`
	Priority   enums.TicketPriority `json:"priority"`
}

// RevisionCompletedEvent is emitted when a workshop revision is closed out.
type RevisionCompletedEvent struct {
	RevisionID uuid.UUID       `json:"revision_id"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
	Plate      string          `json:"plate"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Attention  int             `json:"attention_items"`
	Replace    int             `json:"replace_items"`
}
