package promotions

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

type fakeRepo struct {
	rows      []models.Promotion
	exhausted map[uuid.UUID]bool
	created   *models.Promotion
	updates   map[string]any
	runner    *scopedTxRunner
	untx      int
}

// scopedTxRunner reports whether a call happens inside WithTx.
type scopedTxRunner struct {
	active bool
}

func (r *scopedTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	r.active = true
	defer func() { r.active = false }()
	return fn(nil)
}

func (f *fakeRepo) trackWrite() {
	if f.runner == nil || !f.runner.active {
		f.untx++
	}
}

func (f *fakeRepo) ListCurrent(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	return f.rows, nil
}

func (f *fakeRepo) Create(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	f.trackWrite()
	f.created = promo
	return promo, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Promotion, error) {
	f.trackWrite()
	f.updates = updates
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.trackWrite()
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]models.Promotion, error) { return f.rows, nil }

func (f *fakeRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	p, _ := f.FindByID(ctx, id)
	if p == nil || f.exhausted[id] {
		return false, nil
	}
	p.UsageCount++
	return true, nil
}

func (f *fakeRepo) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	if p, _ := f.FindByID(ctx, id); p != nil && p.UsageCount > 0 {
		p.UsageCount--
	}
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo) *service {
	t.Helper()
	rules, err := NewRuleEngine()
	if err != nil {
		t.Fatalf("rule engine: %v", err)
	}
	repo.runner = &scopedTxRunner{}
	return &service{
		repo:   repo,
		tx:     repo.runner,
		txRepo: func(tx *gorm.DB) promotionStore { return repo },
		rules:  rules,
		logg:   logger.Nop(),
		now:    func() time.Time { return fixedNow },
	}
}

func promo(name string, kind enums.DiscountType, value string, priority int) models.Promotion {
	return models.Promotion{
		ID:           uuid.New(),
		Name:         name,
		DiscountType: kind,
		Value:        decimal.RequireFromString(value),
		StartsAt:     fixedNow.Add(-time.Hour),
		Priority:     priority,
		IsActive:     true,
	}
}

func strPtr(v string) *string { return &v }

func TestBestForPicksLargestDiscount(t *testing.T) {
	repo := &fakeRepo{rows: []models.Promotion{
		promo("ten percent", enums.DiscountTypePercentage, "10", 1),
		promo("fixed 15", enums.DiscountTypeFixed, "15", 0),
		promo("fixed 15 priority", enums.DiscountTypeFixed, "15", 5),
	}}
	svc := newTestService(t, repo)

	best, err := svc.BestFor(context.Background(), Cart{Subtotal: decimal.NewFromInt(100), ItemCount: 1})
	if err != nil {
		t.Fatalf("best for: %v", err)
	}
	if best == nil || best.Name != "fixed 15 priority" {
		t.Fatalf("expected tie broken by priority, got %+v", best)
	}
}

func TestBestForAppliesRule(t *testing.T) {
	gold := promo("gold only", enums.DiscountTypeFixed, "50", 0)
	gold.Rule = strPtr("customer_level == 'gold'")
	repo := &fakeRepo{rows: []models.Promotion{gold}}
	svc := newTestService(t, repo)

	best, err := svc.BestFor(context.Background(), Cart{Subtotal: decimal.NewFromInt(200), CustomerLevel: "bronze"})
	if err != nil || best != nil {
		t.Fatalf("expected no promotion for bronze, got %+v err=%v", best, err)
	}
	best, err = svc.BestFor(context.Background(), Cart{Subtotal: decimal.NewFromInt(200), CustomerLevel: "gold"})
	if err != nil || best == nil || !best.Discount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected gold promotion, got %+v err=%v", best, err)
	}
}

func TestClaimFallsBackWhenLimitReached(t *testing.T) {
	big := promo("big", enums.DiscountTypeFixed, "40", 0)
	repo := &fakeRepo{
		rows:      []models.Promotion{big, promo("small", enums.DiscountTypeFixed, "5", 0)},
		exhausted: map[uuid.UUID]bool{big.ID: true},
	}
	svc := newTestService(t, repo)

	claimed, err := svc.Claim(context.Background(), nil, Cart{Subtotal: decimal.NewFromInt(100)})
	if err != nil || claimed == nil || claimed.Name != "small" {
		t.Fatalf("expected fallback promotion, got %+v err=%v", claimed, err)
	}
	if repo.rows[1].UsageCount != 1 || repo.rows[0].UsageCount != 0 {
		t.Fatalf("unexpected usage counts %d/%d", repo.rows[0].UsageCount, repo.rows[1].UsageCount)
	}
}

func TestCreateRejectsInvalidRule(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Create(context.Background(), CreatePromotionInput{
		Name:         "bad",
		DiscountType: enums.DiscountTypeFixed,
		Value:        decimal.NewFromInt(5),
		Rule:         strPtr("subtotal + 1.0"),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	dto, err := svc.Create(context.Background(), CreatePromotionInput{
		Name:         "good",
		DiscountType: enums.DiscountTypeFixed,
		Value:        decimal.NewFromInt(5),
		Rule:         strPtr("  item_count >= 2  "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Rule == nil || *dto.Rule != "item_count >= 2" {
		t.Fatalf("expected trimmed rule, got %v", dto.Rule)
	}
}

func TestUpdateClearsOptionalBounds(t *testing.T) {
	current := promo("weekend", enums.DiscountTypePercentage, "10", 0)
	maxCap := decimal.NewFromInt(50)
	ends := fixedNow.Add(24 * time.Hour)
	current.MaxDiscount = &maxCap
	current.EndsAt = &ends
	repo := &fakeRepo{rows: []models.Promotion{current}}
	svc := newTestService(t, repo)

	var input UpdatePromotionInput
	if err := json.Unmarshal([]byte(`{"max_discount":null,"ends_at":null}`), &input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := svc.Update(context.Background(), current.ID, input); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v, ok := repo.updates["max_discount"]; !ok || v.(*decimal.Decimal) != nil {
		t.Fatalf("expected max_discount cleared, got %v", repo.updates)
	}
	if v, ok := repo.updates["ends_at"]; !ok || v != nil {
		t.Fatalf("expected ends_at cleared, got %v", repo.updates)
	}
	if _, ok := repo.updates["min_cart_value"]; ok {
		t.Fatalf("absent field must not be touched, got %v", repo.updates)
	}
	if repo.untx != 0 {
		t.Fatalf("expected update inside WithTx, %d writes ran outside", repo.untx)
	}
}

func TestAdminWritesRunInsideTransaction(t *testing.T) {
	current := promo("weekend", enums.DiscountTypeFixed, "10", 0)
	repo := &fakeRepo{rows: []models.Promotion{current}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreatePromotionInput{Name: "frete", DiscountType: enums.DiscountTypeFixed, Value: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected id assigned before insert")
	}
	if err := svc.Delete(ctx, current.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.untx != 0 {
		t.Fatalf("expected every admin write inside WithTx, %d ran outside", repo.untx)
	}
}
