package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingAddress is the Brazilian delivery address stored as jsonb on orders.
type ShippingAddress struct {
	Recipient  string  `json:"recipient" validate:"required,max=120"`
	Street     string  `json:"street" validate:"required,max=160"`
	Number     string  `json:"number" validate:"required,max=20"`
	Complement *string `json:"complement,omitempty" validate:"omitempty,max=80"`
	District   string  `json:"district" validate:"required,max=80"`
	City       string  `json:"city" validate:"required,max=80"`
	State      string  `json:"state" validate:"required,len=2,alpha"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// Normalize uppercases the state and keeps only digits in the postal code.
func (a *ShippingAddress) Normalize() {
	a.Recipient = strings.TrimSpace(a.Recipient)
	a.Street = strings.TrimSpace(a.Street)
	a.Number = strings.TrimSpace(a.Number)
	a.District = strings.TrimSpace(a.District)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.ToUpper(strings.TrimSpace(a.State))
	a.PostalCode = digitsOnly(a.PostalCode)
}

// Check reports the first structural problem with the address.
func (a ShippingAddress) Check() error {
	if len(a.PostalCode) != 8 {
		return fmt.Errorf("address: postal_code must have 8 digits")
	}
	if len(a.State) != 2 {
		return fmt.Errorf("address: state must be a 2-letter code")
	}
	return nil
}

// Value marshals the address into jsonb.
func (a ShippingAddress) Value() (driver.Value, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a jsonb column.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, a)
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
