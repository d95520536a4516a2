package shipping

import (
	"context"
	"testing"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows    []models.ShippingMethod
	updates map[string]any
}

func (f *fakeRepo) Create(ctx context.Context, m *models.ShippingMethod) (*models.ShippingMethod, error) {
	m.ID = uuid.New()
	f.rows = append(f.rows, *m)
	return m, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ShippingMethod, error) {
	f.updates = updates
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(ctx context.Context, activeOnly bool) ([]models.ShippingMethod, error) {
	var out []models.ShippingMethod
	for _, row := range f.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func TestCreateMethodValidatesDays(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})
	_, err := svc.CreateMethod(context.Background(), CreateMethodInput{
		Name:             "PAC",
		Price:            decimal.NewFromInt(20),
		EstimatedDaysMin: 5,
		EstimatedDaysMax: 2,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMethodClearsFreeOver(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{rows: []models.ShippingMethod{{ID: id, Name: "Sedex", EstimatedDaysMin: 1, EstimatedDaysMax: 3}}}
	svc, _ := NewService(repo)

	if _, err := svc.UpdateMethod(context.Background(), id, UpdateMethodInput{ClearFreeOver: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v, ok := repo.updates["free_over"]; !ok || v != nil {
		t.Fatalf("expected free_over cleared, got %v", repo.updates)
	}

	minDays := 4
	if _, err := svc.UpdateMethod(context.Background(), id, UpdateMethodInput{EstimatedDaysMin: &minDays}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected min > max to fail, got %v", err)
	}
}

func TestQuoteAllSkipsInactive(t *testing.T) {
	freeOver := decimal.NewFromInt(200)
	repo := &fakeRepo{rows: []models.ShippingMethod{
		{ID: uuid.New(), Name: "PAC", Price: decimal.NewFromInt(20), FreeOver: &freeOver, IsActive: true},
		{ID: uuid.New(), Name: "Retirada", Price: decimal.Zero, IsPickup: true, IsActive: true},
		{ID: uuid.New(), Name: "Antigo", Price: decimal.NewFromInt(99), IsActive: false},
	}}
	svc, _ := NewService(repo)

	quotes, err := svc.QuoteAll(context.Background(), decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	for _, q := range quotes {
		if !q.Free {
			t.Fatalf("expected %s to be free at 250, got %s", q.Name, q.Price)
		}
	}
}
