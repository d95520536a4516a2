package loyalty

import (
	"fmt"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// settingsID is the primary key of the single loyalty_settings row.
const settingsID = 1

// DefaultSettings converts the loyalty config into the settings used when no
// row has been stored yet.
func DefaultSettings(cfg config.LoyaltyConfig) (models.LoyaltySettings, error) {
	parse := func(name, raw string) (decimal.Decimal, error) {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("loyalty %s: %w", name, err)
		}
		if v.IsNegative() {
			return decimal.Zero, fmt.Errorf("loyalty %s cannot be negative", name)
		}
		return v, nil
	}
	rate, err := parse("points per real", cfg.PointsPerReal)
	if err != nil {
		return models.LoyaltySettings{}, err
	}
	bronze, err := parse("bronze multiplier", cfg.BronzeMultiplier)
	if err != nil {
		return models.LoyaltySettings{}, err
	}
	silver, err := parse("silver multiplier", cfg.SilverMultiplier)
	if err != nil {
		return models.LoyaltySettings{}, err
	}
	gold, err := parse("gold multiplier", cfg.GoldMultiplier)
	if err != nil {
		return models.LoyaltySettings{}, err
	}
	if cfg.SilverThreshold < 0 || cfg.GoldThreshold < cfg.SilverThreshold {
		return models.LoyaltySettings{}, fmt.Errorf("loyalty thresholds must satisfy 0 <= silver <= gold")
	}
	return models.LoyaltySettings{
		ID:               settingsID,
		Enabled:          true,
		PointsPerReal:    rate,
		BronzeMultiplier: bronze,
		SilverMultiplier: silver,
		GoldMultiplier:   gold,
		SilverThreshold:  cfg.SilverThreshold,
		GoldThreshold:    cfg.GoldThreshold,
	}, nil
}

// Multiplier returns the earn multiplier for level.
func Multiplier(s models.LoyaltySettings, level enums.LoyaltyLevel) decimal.Decimal {
	switch level {
	case enums.LoyaltyLevelGold:
		return s.GoldMultiplier
	case enums.LoyaltyLevelSilver:
		return s.SilverMultiplier
	default:
		return s.BronzeMultiplier
	}
}

// PointsFor computes floor(amount * points_per_real * multiplier(level)).
func PointsFor(s models.LoyaltySettings, amount decimal.Decimal, level enums.LoyaltyLevel) int64 {
	if !s.Enabled || !amount.IsPositive() {
		return 0
	}
	return amount.Mul(s.PointsPerReal).Mul(Multiplier(s, level)).Floor().IntPart()
}

// LevelFor derives the tier from lifetime points.
func LevelFor(s models.LoyaltySettings, lifetime int64) enums.LoyaltyLevel {
	switch {
	case lifetime >= s.GoldThreshold:
		return enums.LoyaltyLevelGold
	case lifetime >= s.SilverThreshold:
		return enums.LoyaltyLevelSilver
	default:
		return enums.LoyaltyLevelBronze
	}
}

// nextLevel returns the following tier and the lifetime points missing to reach it.
func nextLevel(s models.LoyaltySettings, lifetime int64) (*enums.LoyaltyLevel, int64) {
	switch LevelFor(s, lifetime) {
	case enums.LoyaltyLevelBronze:
		lvl := enums.LoyaltyLevelSilver
		return &lvl, s.SilverThreshold - lifetime
	case enums.LoyaltyLevelSilver:
		lvl := enums.LoyaltyLevelGold
		return &lvl, s.GoldThreshold - lifetime
	default:
		return nil, 0
	}
}
