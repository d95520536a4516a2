package promotions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service manages automatic promotions.
type Service interface {
	List(ctx context.Context) ([]PromotionDTO, error)
	ListCurrent(ctx context.Context) ([]PromotionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
	Create(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BestFor(ctx context.Context, cart Cart) (*Applied, error)
	Claim(ctx context.Context, tx *gorm.DB, cart Cart) (*Applied, error)
	Release(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID) error
}

type promotionReader interface {
	ListCurrent(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

type promotionRepository interface {
	promotionReader
	Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
}

type usageWriter interface {
	promotionReader
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementUsage(ctx context.Context, id uuid.UUID) error
}

// promotionStore is the repository bound to a transaction.
type promotionStore interface {
	promotionRepository
	usageWriter
}

type service struct {
	repo   promotionRepository
	tx     db.TxRunner
	txRepo func(tx *gorm.DB) promotionStore
	rules  *RuleEngine
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(repo *Repository, txRunner db.TxRunner, rules *RuleEngine, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule engine required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     txRunner,
		txRepo: func(tx *gorm.DB) promotionStore { return repo.WithTx(tx) },
		rules:  rules,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) write(ctx context.Context, fn func(repo promotionStore) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.txRepo(tx))
	})
}

func (s *service) List(ctx context.Context) ([]PromotionDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.MapError(err, "promotions")
	}
	return toDTOs(rows), nil
}

func (s *service) ListCurrent(ctx context.Context) ([]PromotionDTO, error) {
	rows, err := s.repo.ListCurrent(ctx, s.now().UTC())
	if err != nil {
		return nil, db.MapError(err, "promotions")
	}
	return toDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "promotion")
	}
	return NewPromotionDTO(m), nil
}

func (s *service) Create(ctx context.Context, input CreatePromotionInput) (*PromotionDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
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
	if input.EndsAt != nil && !input.EndsAt.After(startsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}
	rule, err := s.compileRule(input.Rule)
	if err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	promo := &models.Promotion{
		ID:           uuid.New(),
		Name:         name,
		Description:  trimOptional(input.Description),
		DiscountType: input.DiscountType,
		Value:        input.Value.Round(2),
		MaxDiscount:  input.MaxDiscount,
		MinCartValue: input.MinCartValue,
		StartsAt:     startsAt,
		EndsAt:       input.EndsAt,
		UsageLimit:   input.UsageLimit,
		Priority:     input.Priority,
		BannerURL:    trimOptional(input.BannerURL),
		Rule:         rule,
		IsActive:     active,
	}
	var created *models.Promotion
	err = s.write(ctx, func(repo promotionStore) error {
		var err error
		created, err = repo.Create(ctx, promo)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "promotion")
	}
	return NewPromotionDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "promotion")
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
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
	if endsAt != nil && !endsAt.After(startsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}
	if input.UsageLimit != nil {
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.BannerURL != nil {
		updates["banner_url"] = trimOptional(input.BannerURL)
	}
	if input.Rule != nil {
		rule, err := s.compileRule(input.Rule)
		if err != nil {
			return nil, err
		}
		updates["rule"] = rule
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	var m *models.Promotion
	err = s.write(ctx, func(repo promotionStore) error {
		var err error
		m, err = repo.Update(ctx, id, updates)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "promotion")
	}
	return NewPromotionDTO(m), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, func(repo promotionStore) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return db.MapError(err, "promotion")
	}
	return nil
}

func (s *service) BestFor(ctx context.Context, cart Cart) (*Applied, error) {
	candidates, err := s.candidates(ctx, s.repo, cart)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

// Claim picks the best qualifying promotion and consumes one use of it inside
// tx. When the best one hits its usage limit concurrently the next candidate is
// tried. It returns nil when nothing applies.
func (s *service) Claim(ctx context.Context, tx *gorm.DB, cart Cart) (*Applied, error) {
	repo := s.txRepo(tx)
	candidates, err := s.candidates(ctx, repo, cart)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		ok, err := repo.IncrementUsage(ctx, candidates[i].PromotionID)
		if err != nil {
			return nil, db.MapError(err, "promotion")
		}
		if ok {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (s *service) Release(ctx context.Context, tx *gorm.DB, promotionID uuid.UUID) error {
	if err := s.txRepo(tx).DecrementUsage(ctx, promotionID); err != nil {
		return db.MapError(err, "promotion")
	}
	return nil
}

// candidates returns qualifying promotions, largest discount first and higher
// priority on ties.
func (s *service) candidates(ctx context.Context, repo promotionReader, cart Cart) ([]Applied, error) {
	now := s.now().UTC()
	rows, err := repo.ListCurrent(ctx, now)
	if err != nil {
		return nil, db.MapError(err, "promotions")
	}
	subtotal := cart.Subtotal.Round(2)
	var out []Applied
	for i := range rows {
		promo := &rows[i]
		res, err := ruleFor(promo).Apply(now, subtotal)
		if err != nil {
			continue
		}
		if promo.Rule != nil && *promo.Rule != "" {
			ok, err := s.rules.Eval(*promo.Rule, cart)
			if err != nil {
				warnCtx := s.logg.WithFields(ctx, map[string]any{"promotion_id": promo.ID.String(), "error": err.Error()})
				s.logg.Warn(warnCtx, "promotion rule evaluation failed")
				continue
			}
			if !ok {
				continue
			}
		}
		if !res.Discount.IsPositive() {
			continue
		}
		out = append(out, Applied{PromotionID: promo.ID, Name: promo.Name, Priority: promo.Priority, Discount: res.Discount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Discount.Equal(out[j].Discount) {
			return out[i].Discount.GreaterThan(out[j].Discount)
		}
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}

func (s *service) compileRule(rule *string) (*string, error) {
	trimmed := trimOptional(rule)
	if trimmed == nil {
		return nil, nil
	}
	if _, err := s.rules.Compile(*trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion rule").
			WithDetails(map[string]any{"reason": err.Error()})
	}
	return trimmed, nil
}

func roundedOrNil(value *decimal.Decimal) *decimal.Decimal {
	if value == nil {
		return nil
	}
	rounded := value.Round(2)
	return &rounded
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

func toDTOs(rows []models.Promotion) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPromotionDTO(&rows[i]))
	}
	return out
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
