package enums

import "fmt"

// LoyaltyLevel is the customer tier that multiplies earned points.
type LoyaltyLevel string

const (
	LoyaltyLevelBronze LoyaltyLevel = "bronze"
	LoyaltyLevelSilver LoyaltyLevel = "silver"
	LoyaltyLevelGold   LoyaltyLevel = "gold"
)

var validLoyaltyLevels = []LoyaltyLevel{
	LoyaltyLevelBronze,
	LoyaltyLevelSilver,
	LoyaltyLevelGold,
}

// String implements fmt.Stringer.
func (v LoyaltyLevel) String() string {
	return string(v)
}

// IsValid reports whether the value is a known LoyaltyLevel.
func (v LoyaltyLevel) IsValid() bool {
	for _, candidate := range validLoyaltyLevels {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseLoyaltyLevel converts raw input into a LoyaltyLevel.
func ParseLoyaltyLevel(value string) (LoyaltyLevel, error) {
	for _, candidate := range validLoyaltyLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty level %q", value)
}

// LoyaltyTransactionType classifies a loyalty ledger row.
type LoyaltyTransactionType string

const (
	LoyaltyTransactionEarn   LoyaltyTransactionType = "earn"
	LoyaltyTransactionRedeem LoyaltyTransactionType = "redeem"
	LoyaltyTransactionAdjust LoyaltyTransactionType = "adjust"
)

var validLoyaltyTransactionTypes = []LoyaltyTransactionType{
	LoyaltyTransactionEarn,
	LoyaltyTransactionRedeem,
	LoyaltyTransactionAdjust,
}

// String implements fmt.Stringer.
func (v LoyaltyTransactionType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known LoyaltyTransactionType.
func (v LoyaltyTransactionType) IsValid() bool {
	for _, candidate := range validLoyaltyTransactionTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseLoyaltyTransactionType converts raw input into a LoyaltyTransactionType.
func ParseLoyaltyTransactionType(value string) (LoyaltyTransactionType, error) {
	for _, candidate := range validLoyaltyTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty transaction type %q", value)
}
