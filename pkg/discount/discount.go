// Package discount evaluates coupon and promotion rules against a cart value.
package discount

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
)

// Reason identifies why a rule rejected a cart.
type Reason string

const (
	ReasonInactive             Reason = "inactive"
	ReasonNotStarted           Reason = "not_started"
	ReasonExpired              Reason = "expired"
	ReasonBelowMinimum         Reason = "below_minimum"
	ReasonUsageLimitReached    Reason = "usage_limit_reached"
	ReasonCustomerLimitReached Reason = "customer_limit_reached"
	ReasonInvalidRule          Reason = "invalid_rule"
)

// RejectionError is returned when a rule's preconditions fail.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(reason Reason, msg string) error {
	return &RejectionError{Reason: reason, Message: msg}
}

// AsRejection extracts a RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// APIError converts a rejection into a validation error carrying the reason.
// Other errors are returned unchanged.
func APIError(err error) error {
	rej, ok := AsRejection(err)
	if !ok {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeValidation, rej.Message).
		WithDetails(map[string]any{"reason": string(rej.Reason)})
}

var hundred = decimal.NewFromInt(100)

// Rule is the shared shape of coupons and promotions.
type Rule struct {
	Type         enums.DiscountType
	Value        decimal.Decimal
	MaxDiscount  *decimal.Decimal
	MinCartValue *decimal.Decimal
	StartsAt     time.Time
	EndsAt       *time.Time
	UsageLimit   *int
	UsageCount   int
	Active       bool
}

// Check validates the rule window, minimum cart value and global usage.
func (r Rule) Check(now time.Time, cartTotal decimal.Decimal) error {
	if !r.Active {
		return reject(ReasonInactive, "discount is not active")
	}
	if !r.StartsAt.IsZero() && now.Before(r.StartsAt) {
		return reject(ReasonNotStarted, "discount is not yet valid")
	}
	if r.EndsAt != nil && !now.Before(*r.EndsAt) {
		return reject(ReasonExpired, "discount has expired")
	}
	if r.MinCartValue != nil && cartTotal.LessThan(*r.MinCartValue) {
		return reject(ReasonBelowMinimum, "cart total is below the minimum of "+r.MinCartValue.StringFixed(2))
	}
	if r.UsageLimit != nil && r.UsageCount >= *r.UsageLimit {
		return reject(ReasonUsageLimitReached, "discount usage limit reached")
	}
	return nil
}

// Amount computes the discount for cartTotal without checking preconditions.
// The result is rounded to cents and never exceeds cartTotal.
func (r Rule) Amount(cartTotal decimal.Decimal) decimal.Decimal {
	if !cartTotal.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch r.Type {
	case enums.DiscountTypePercentage:
		pct := clamp(r.Value, decimal.Zero, hundred)
		amount = cartTotal.Mul(pct).Div(hundred).Round(2)
		if r.MaxDiscount != nil && !r.MaxDiscount.IsNegative() && amount.GreaterThan(*r.MaxDiscount) {
			amount = *r.MaxDiscount
		}
	case enums.DiscountTypeFixed:
		amount = decimal.Max(r.Value, decimal.Zero).Round(2)
	default:
		return decimal.Zero
	}

	if amount.GreaterThan(cartTotal) {
		return cartTotal
	}
	return amount
}

// Result is the outcome of a successful Apply.
type Result struct {
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
}

// Apply checks the rule and computes the discount.
func (r Rule) Apply(now time.Time, cartTotal decimal.Decimal) (Result, error) {
	if err := r.Check(now, cartTotal); err != nil {
		return Result{}, err
	}
	amount := r.Amount(cartTotal)
	return Result{Discount: amount, FinalTotal: cartTotal.Sub(amount)}, nil
}

// CheckCustomerLimit rejects when a customer already used the discount limit times.
func CheckCustomerLimit(limit *int, used int64) error {
	if limit != nil && used >= int64(*limit) {
		return reject(ReasonCustomerLimitReached, "discount already used the maximum number of times by this customer")
	}
	return nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
