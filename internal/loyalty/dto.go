package loyalty

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettingsDTO struct {
	Enabled          bool            `json:"enabled"`
	PointsPerReal    decimal.Decimal `json:"points_per_real"`
	BronzeMultiplier decimal.Decimal `json:"bronze_multiplier"`
	SilverMultiplier decimal.Decimal `json:"silver_multiplier"`
	GoldMultiplier   decimal.Decimal `json:"gold_multiplier"`
	SilverThreshold  int64           `json:"silver_threshold"`
	GoldThreshold    int64           `json:"gold_threshold"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

type UpdateSettingsInput struct {
	Enabled          bool            `json:"enabled"`
	PointsPerReal    decimal.Decimal `json:"points_per_real"`
	BronzeMultiplier decimal.Decimal `json:"bronze_multiplier"`
	SilverMultiplier decimal.Decimal `json:"silver_multiplier"`
	GoldMultiplier   decimal.Decimal `json:"gold_multiplier"`
	SilverThreshold  int64           `json:"silver_threshold" validate:"gte=0"`
	GoldThreshold    int64           `json:"gold_threshold" validate:"gte=0"`
}

type AccountDTO struct {
	CustomerID        uuid.UUID           `json:"customer_id"`
	Balance           int64               `json:"balance"`
	LifetimePoints    int64               `json:"lifetime_points"`
	Level             enums.LoyaltyLevel  `json:"level"`
	Multiplier        decimal.Decimal     `json:"multiplier"`
	NextLevel         *enums.LoyaltyLevel `json:"next_level,omitempty"`
	PointsToNextLevel int64               `json:"points_to_next_level,omitempty"`
	ProgramEnabled    bool                `json:"program_enabled"`
}

type TransactionDTO struct {
	ID           uuid.UUID                    `json:"id"`
	Type         enums.LoyaltyTransactionType `json:"type"`
	Points       int64                        `json:"points"`
	BalanceAfter int64                        `json:"balance_after"`
	OrderID      *uuid.UUID                   `json:"order_id,omitempty"`
	RewardID     *uuid.UUID                   `json:"reward_id,omitempty"`
	Description  *string                      `json:"description,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
}

type RewardDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PointsCost  int64     `json:"points_cost"`
	Stock       *int      `json:"stock,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateRewardInput struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Description *string `json:"description,omitempty"`
	PointsCost  int64   `json:"points_cost" validate:"required,gt=0"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UpdateRewardInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=160"`
	Description *string `json:"description,omitempty"`
	PointsCost  *int64  `json:"points_cost,omitempty" validate:"omitempty,gt=0"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type RedeemRewardInput struct {
	RewardID uuid.UUID `json:"rewardId" validate:"required"`
}

type AdjustInput struct {
	Points      int64   `json:"points" validate:"required,ne=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// EarnInput credits points for a delivered order.
type EarnInput struct {
	CustomerID uuid.UUID
	OrderID    uuid.UUID
	Amount     decimal.Decimal
}

func newSettingsDTO(s models.LoyaltySettings) *SettingsDTO {
	dto := &SettingsDTO{
		Enabled:          s.Enabled,
		PointsPerReal:    s.PointsPerReal,
		BronzeMultiplier: s.BronzeMultiplier,
		SilverMultiplier: s.SilverMultiplier,
		GoldMultiplier:   s.GoldMultiplier,
		SilverThreshold:  s.SilverThreshold,
		GoldThreshold:    s.GoldThreshold,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

func newTransactionDTO(m *models.LoyaltyTransaction) *TransactionDTO {
	return &TransactionDTO{
		ID:           m.ID,
		Type:         m.Type,
		Points:       m.Points,
		BalanceAfter: m.BalanceAfter,
		OrderID:      m.OrderID,
		RewardID:     m.RewardID,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}

func newRewardDTO(m *models.LoyaltyReward) *RewardDTO {
	return &RewardDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PointsCost:  m.PointsCost,
		Stock:       m.Stock,
		ImageURL:    m.ImageURL,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
