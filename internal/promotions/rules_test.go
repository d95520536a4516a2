package promotions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRuleEngineCompileRejectsNonBool(t *testing.T) {
	engine, err := NewRuleEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if _, err := engine.Compile("subtotal * 2.0"); err == nil {
		t.Fatal("expected non-bool rule to fail")
	}
	if _, err := engine.Compile("subtotal >"); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := engine.Compile("unknown_var == 1"); err == nil {
		t.Fatal("expected undeclared variable to fail")
	}
}

func TestRuleEngineEval(t *testing.T) {
	engine, _ := NewRuleEngine()
	oil := uuid.New()
	cart := Cart{Subtotal: decimal.NewFromInt(320), ItemCount: 3, CustomerLevel: "gold", ProductIDs: []uuid.UUID{oil}}

	cases := []struct {
		rule string
		want bool
	}{
		{"subtotal >= 300.0 && item_count > 2", true},
		{"customer_level == 'silver'", false},
		{"'" + oil.String() + "' in product_ids", true},
		{"size(service_ids) > 0", false},
	}
	for _, tc := range cases {
		got, err := engine.Eval(tc.rule, cart)
		if err != nil {
			t.Fatalf("eval %q: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("eval %q = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestRuleEngineSubtotalCentsIsExact(t *testing.T) {
	engine, _ := NewRuleEngine()
	cart := Cart{Subtotal: decimal.RequireFromString("199.99")}

	cases := []struct {
		rule string
		want bool
	}{
		{"subtotal_cents >= 19999", true},
		{"subtotal_cents >= 20000", false},
		{"subtotal_cents == 19999", true},
	}
	for _, tc := range cases {
		got, err := engine.Eval(tc.rule, cart)
		if err != nil {
			t.Fatalf("eval %q: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("eval %q = %v, want %v", tc.rule, got, tc.want)
		}
	}

	cart.Subtotal = decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))
	got, err := engine.Eval("subtotal_cents == 30", cart)
	if err != nil || !got {
		t.Fatalf("expected 0.1+0.2 to be exactly 30 cents, got %v err=%v", got, err)
	}
}
