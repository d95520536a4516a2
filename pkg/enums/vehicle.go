package enums

import "fmt"

// FuelType describes the fuel a vehicle variant runs on.
type FuelType string

const (
	FuelTypeGasoline FuelType = "gasoline"
	FuelTypeEthanol  FuelType = "ethanol"
	FuelTypeFlex     FuelType = "flex"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeCNG      FuelType = "cng"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeElectric FuelType = "electric"
)

var validFuelTypes = []FuelType{
	FuelTypeGasoline,
	FuelTypeEthanol,
	FuelTypeFlex,
	FuelTypeDiesel,
	FuelTypeCNG,
	FuelTypeHybrid,
	FuelTypeElectric,
}

// String implements fmt.Stringer.
func (v FuelType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known FuelType.
func (v FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}
