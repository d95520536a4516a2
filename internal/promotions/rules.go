package promotions

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the fact set a promotion rule is evaluated against.
type Cart struct {
	Subtotal      decimal.Decimal
	ItemCount     int
	CustomerLevel string
	ProductIDs    []uuid.UUID
	ServiceIDs    []uuid.UUID
}

// activation exposes the subtotal both as a double for readable rules and as
// exact integer cents for threshold checks.
func (c Cart) activation() map[string]any {
	subtotal := c.Subtotal.Round(2)
	asFloat, _ := subtotal.Float64()
	return map[string]any{
		"subtotal":       asFloat,
		"subtotal_cents": subtotal.Shift(2).IntPart(),
		"item_count":     int64(c.ItemCount),
		"customer_level": c.CustomerLevel,
		"product_ids":    idStrings(c.ProductIDs),
		"service_ids":    idStrings(c.ServiceIDs),
	}
}

// RuleEngine compiles and evaluates CEL eligibility rules. Compiled programs
// are cached by source text.
type RuleEngine struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

func NewRuleEngine() (*RuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("subtotal_cents", cel.IntType),
		cel.Variable("item_count", cel.IntType),
		cel.Variable("customer_level", cel.StringType),
		cel.Variable("product_ids", cel.ListType(cel.StringType)),
		cel.Variable("service_ids", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	return &RuleEngine{env: env, programs: map[string]cel.Program{}}, nil
}

// Compile checks that rule parses, type-checks and yields a bool.
func (e *RuleEngine) Compile(rule string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[rule]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(rule)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("rule must evaluate to bool, got %s", ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[rule] = prg
	e.mu.Unlock()
	return prg, nil
}

// Eval reports whether cart satisfies rule.
func (e *RuleEngine) Eval(rule string, cart Cart) (bool, error) {
	prg, err := e.Compile(rule)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(cart.activation())
	if err != nil {
		return false, err
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule returned %T", out.Value())
	}
	return matched, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
