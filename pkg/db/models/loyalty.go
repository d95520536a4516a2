package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

// LoyaltySettings is the single row configuring point accrual.
type LoyaltySettings struct {
	ID               int             `gorm:"column:id;primaryKey"`
	Enabled          bool            `gorm:"column:enabled;not null"`
	PointsPerReal    decimal.Decimal `gorm:"column:points_per_real;type:numeric(10,4);not null"`
	BronzeMultiplier decimal.Decimal `gorm:"column:bronze_multiplier;type:numeric(6,3);not null"`
	SilverMultiplier decimal.Decimal `gorm:"column:silver_multiplier;type:numeric(6,3);not null"`
	GoldMultiplier   decimal.Decimal `gorm:"column:gold_multiplier;type:numeric(6,3);not null"`
	SilverThreshold  int64           `gorm:"column:silver_threshold;not null"`
	GoldThreshold    int64           `gorm:"column:gold_threshold;not null"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (LoyaltySettings) TableName() string { return "loyalty_settings" }

// LoyaltyAccount holds a customer's spendable balance and tier.
type LoyaltyAccount struct {
	CustomerID     uuid.UUID          `gorm:"column:customer_id;type:uuid;primaryKey"`
	Balance        int64              `gorm:"column:balance;not null;default:0"`
	LifetimePoints int64              `gorm:"column:lifetime_points;not null;default:0"`
	Level          enums.LoyaltyLevel `gorm:"column:level;type:text;not null;default:bronze"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// LoyaltyTransaction is an append-only ledger row. Points are signed.
type LoyaltyTransaction struct {
	ID           uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID                    `gorm:"column:customer_id;type:uuid;not null"`
	Type         enums.LoyaltyTransactionType `gorm:"column:type;type:text;not null"`
	Points       int64                        `gorm:"column:points;not null"`
	BalanceAfter int64                        `gorm:"column:balance_after;not null"`
	OrderID      *uuid.UUID                   `gorm:"column:order_id;type:uuid"`
	RewardID     *uuid.UUID                   `gorm:"column:reward_id;type:uuid"`
	Description  *string                      `gorm:"column:description"`
	CreatedAt    time.Time                    `gorm:"column:created_at;autoCreateTime"`
}

// LoyaltyReward is something customers can exchange points for.
type LoyaltyReward struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	PointsCost  int64     `gorm:"column:points_cost;not null"`
	Stock       *int      `gorm:"column:stock"`
	ImageURL    *string   `gorm:"column:image_url"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
