package types

import "testing"

func TestShippingAddressNormalizeAndValue(t *testing.T) {
	addr := ShippingAddress{
		Recipient:  " Ana Souza ",
		Street:     "Rua das Flores",
		Number:     "120",
		District:   "Centro",
		City:       "Curitiba",
		State:      "pr",
		PostalCode: "80010-000",
	}
	addr.Normalize()

	if addr.State != "PR" {
		t.Fatalf("expected uppercase state, got %q", addr.State)
	}
	if addr.PostalCode != "80010000" {
		t.Fatalf("expected digits-only postal code, got %q", addr.PostalCode)
	}
	if addr.Recipient != "Ana Souza" {
		t.Fatalf("expected trimmed recipient, got %q", addr.Recipient)
	}

	val, err := addr.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var decoded ShippingAddress
	if err := decoded.Scan(val); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if decoded != addr {
		t.Fatalf("expected %+v, got %+v", addr, decoded)
	}
}

func TestShippingAddressRejectsShortPostalCode(t *testing.T) {
	addr := ShippingAddress{State: "SP", PostalCode: "1234"}
	if _, err := addr.Value(); err == nil {
		t.Fatal("expected error for short postal code")
	}
}

func TestShippingAddressScanNil(t *testing.T) {
	addr := ShippingAddress{City: "x"}
	if err := addr.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if addr.City != "" {
		t.Fatalf("expected reset address, got %+v", addr)
	}
}
