package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/discount"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service manages coupons and their use at checkout.
type Service interface {
	List(ctx context.Context, query string, params pagination.Params) (*pagination.Page[CouponDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error)
	Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*CouponDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Validate(ctx context.Context, input ValidateInput, customerID *uuid.UUID) (*ValidateResult, error)
	Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Redemption, error)
	Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type couponReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, query string, cursor *pagination.Cursor, limit int) ([]models.Coupon, error)
	CountCustomerRedemptions(ctx context.Context, couponID, customerID uuid.UUID) (int64, error)
}

type couponRepository interface {
	couponReader
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type redemptionWriter interface {
	couponReader
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementUsage(ctx context.Context, id uuid.UUID) error
	CreateRedemption(ctx context.Context, redemption *models.CouponRedemption) error
	DeleteRedemptionByOrder(ctx context.Context, orderID uuid.UUID) (*models.CouponRedemption, error)
}

// couponStore is the repository bound to a transaction: admin writes and
// redemptions both go through it.
type couponStore interface {
	couponRepository
	redemptionWriter
}

type service struct {
	repo   couponRepository
	tx     db.TxRunner
	txRepo func(tx *gorm.DB) couponStore
	now    func() time.Time
}

// NewService wires the coupon service. The repository is also used, bound to
// the caller's transaction, for redemptions.
func NewService(repo *Repository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:   repo,
		tx:     txRunner,
		txRepo: func(tx *gorm.DB) couponStore { return repo.WithTx(tx) },
		now:    time.Now,
	}, nil
}

// write runs an admin mutation in its own transaction so the audit trigger
// sees the acting admin.
func (s *service) write(ctx context.Context, fn func(repo couponStore) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.txRepo(tx))
	})
}

func (s *service) List(ctx context.Context, query string, params pagination.Params) (*pagination.Page[CouponDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, query, cursor, params.Limit)
	if err != nil {
		return nil, db.MapError(err, "coupons")
	}
	page := pagination.Build(rows, params.Limit, func(c models.Coupon) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	items := make([]CouponDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewCouponDTO(&page.Items[i]))
	}
	return &pagination.Page[CouponDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "coupon")
	}
	return NewCouponDTO(m), nil
}

func (s *service) Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_type must be percentage or fixed")
	}
	if err := validateValue(input.DiscountType, input.Value); err != nil {
		return nil, err
	}
	startsAt := s.now().UTC()
	if input.StartsAt != nil {
		startsAt = input.StartsAt.UTC()
	}
	if err := validateWindow(startsAt, input.EndsAt); err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	m := &models.Coupon{
		ID:               uuid.New(),
		Code:             code,
		Description:      trimOptional(input.Description),
		DiscountType:     input.DiscountType,
		Value:            input.Value.Round(2),
		MaxDiscount:      input.MaxDiscount,
		MinCartValue:     input.MinCartValue,
		StartsAt:         startsAt,
		EndsAt:           input.EndsAt,
		UsageLimit:       input.UsageLimit,
		PerCustomerLimit: input.PerCustomerLimit,
		IsActive:         active,
	}
	var created *models.Coupon
	err := s.write(ctx, func(repo couponStore) error {
		var err error
		created, err = repo.Create(ctx, m)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "coupons_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, db.MapError(err, "coupon")
	}
	return NewCouponDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*CouponDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "coupon")
	}
	updates := map[string]any{}
	if input.Description != nil {
		updates["description"] = trimOptional(input.Description)
	}
	if input.Value != nil {
		if err := validateValue(current.DiscountType, *input.Value); err != nil {
			return nil, err
		}
		updates["value"] = input.Value.Round(2)
	}
	if input.MaxDiscount.Set {
		updates["max_discount"] = roundedOrNil(input.MaxDiscount.Value)
	}
	if input.MinCartValue.Set {
		updates["min_cart_value"] = roundedOrNil(input.MinCartValue.Value)
	}
	startsAt, endsAt := current.StartsAt, current.EndsAt
	if input.StartsAt != nil {
		startsAt = input.StartsAt.UTC()
		updates["starts_at"] = startsAt
	}
	if input.EndsAt.Set {
		endsAt = nil
		updates["ends_at"] = nil
		if input.EndsAt.Value != nil {
			utc := input.EndsAt.Value.UTC()
			endsAt = &utc
			updates["ends_at"] = utc
		}
	}
	if err := validateWindow(startsAt, endsAt); err != nil {
		return nil, err
	}
	if input.UsageLimit != nil {
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.PerCustomerLimit != nil {
		updates["per_customer_limit"] = *input.PerCustomerLimit
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	var m *models.Coupon
	err = s.write(ctx, func(repo couponStore) error {
		var err error
		m, err = repo.Update(ctx, id, updates)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "coupon")
	}
	return NewCouponDTO(m), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, func(repo couponStore) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return db.MapError(err, "coupon")
	}
	return nil
}

func (s *service) Validate(ctx context.Context, input ValidateInput, customerID *uuid.UUID) (*ValidateResult, error) {
	if input.CartTotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cartTotal cannot be negative")
	}
	coupon, res, err := s.evaluate(ctx, s.repo, input.Code, input.CartTotal, customerID)
	if err != nil {
		return nil, err
	}
	return &ValidateResult{
		Code:       coupon.Code,
		Type:       coupon.DiscountType,
		Discount:   res.Discount,
		FinalTotal: res.FinalTotal,
	}, nil
}

func (s *service) Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Redemption, error) {
	repo := s.txRepo(tx)
	customerID := input.CustomerID
	coupon, res, err := s.evaluate(ctx, repo, input.Code, input.CartTotal, &customerID)
	if err != nil {
		return nil, err
	}
	ok, err := repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		return nil, db.MapError(err, "coupon")
	}
	if !ok {
		return nil, discount.APIError(&discount.RejectionError{
			Reason:  discount.ReasonUsageLimitReached,
			Message: "discount usage limit reached",
		})
	}
	if err := repo.CreateRedemption(ctx, &models.CouponRedemption{
		CouponID:   coupon.ID,
		CustomerID: input.CustomerID,
		OrderID:    input.OrderID,
		Amount:     res.Discount,
	}); err != nil {
		return nil, db.MapError(err, "coupon redemption")
	}
	return &Redemption{CouponID: coupon.ID, Code: coupon.Code, Discount: res.Discount}, nil
}

func (s *service) Release(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	repo := s.txRepo(tx)
	redemption, err := repo.DeleteRedemptionByOrder(ctx, orderID)
	if err != nil {
		return db.MapError(err, "coupon redemption")
	}
	if redemption == nil {
		return nil
	}
	if err := repo.DecrementUsage(ctx, redemption.CouponID); err != nil {
		return db.MapError(err, "coupon")
	}
	return nil
}

func (s *service) evaluate(ctx context.Context, repo couponReader, code string, cartTotal decimal.Decimal, customerID *uuid.UUID) (*models.Coupon, discount.Result, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, discount.Result{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	coupon, err := repo.FindByCode(ctx, normalized)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, discount.Result{}, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, discount.Result{}, db.MapError(err, "coupon")
	}
	res, err := ruleFor(coupon).Apply(s.now(), cartTotal)
	if err != nil {
		return nil, discount.Result{}, discount.APIError(err)
	}
	if customerID != nil && coupon.PerCustomerLimit != nil {
		used, err := repo.CountCustomerRedemptions(ctx, coupon.ID, *customerID)
		if err != nil {
			return nil, discount.Result{}, db.MapError(err, "coupon redemptions")
		}
		if err := discount.CheckCustomerLimit(coupon.PerCustomerLimit, used); err != nil {
			return nil, discount.Result{}, discount.APIError(err)
		}
	}
	return coupon, res, nil
}

// NormalizeCode uppercases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateValue(kind enums.DiscountType, value decimal.Decimal) error {
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if kind == enums.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
	}
	return nil
}

func validateWindow(startsAt time.Time, endsAt *time.Time) error {
	if endsAt != nil && !endsAt.After(startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}
	return nil
}

// roundedOrNil returns nil for a cleared amount so the column is set to NULL.
func roundedOrNil(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	rounded := value.Round(2)
	return &rounded
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
