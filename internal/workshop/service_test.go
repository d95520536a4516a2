package workshop

import (
	"context"
	"testing"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows       map[uuid.UUID]*models.WorkshopService
	createErr  error
	activeOnly bool
	updates    map[string]any
	runner     *scopedTxRunner
	untxWrites int
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

func newTestService(repo *fakeRepo) Service {
	repo.runner = &scopedTxRunner{}
	return &service{
		repo:   repo,
		tx:     repo.runner,
		txRepo: func(*gorm.DB) repository { return repo },
	}
}

func (f *fakeRepo) trackWrite() {
	if f.runner == nil || !f.runner.active {
		f.untxWrites++
	}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*models.WorkshopService{}}
}

func (f *fakeRepo) Create(ctx context.Context, svc *models.WorkshopService) (*models.WorkshopService, error) {
	f.trackWrite()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows[svc.ID] = svc
	return svc, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.WorkshopService, error) {
	f.trackWrite()
	f.updates = updates
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.trackWrite()
	if _, ok := f.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkshopService, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeRepo) List(ctx context.Context, category string, activeOnly bool) ([]models.WorkshopService, error) {
	f.activeOnly = activeOnly
	var out []models.WorkshopService
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func TestCreateServiceDefaultsDuration(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	dto, err := svc.CreateService(context.Background(), CreateServiceInput{
		Code:     " alin-01 ",
		Name:     "Alinhamento",
		Category: "Suspensao",
		Price:    decimal.RequireFromString("120"),
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if dto.DurationMinutes != defaultDurationMinutes {
		t.Fatalf("expected default duration, got %d", dto.DurationMinutes)
	}
	if dto.Code != "ALIN-01" || dto.Category != "suspensao" {
		t.Fatalf("expected normalized code/category, got %s/%s", dto.Code, dto.Category)
	}
}

func TestCreateServiceDuplicateCode(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "services_code_key"}
	svc := newTestService(repo)

	_, err := svc.CreateService(context.Background(), CreateServiceInput{Code: "A", Name: "A", Category: "a", Price: decimal.Zero})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateServiceRejectsBadValues(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.rows[id] = &models.WorkshopService{ID: id, Code: "A", IsActive: true}
	svc := newTestService(repo)

	negative := decimal.RequireFromString("-5")
	if _, err := svc.UpdateService(context.Background(), id, UpdateServiceInput{Price: &negative}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	zero := 0
	if _, err := svc.UpdateService(context.Background(), id, UpdateServiceInput{DurationMinutes: &zero}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	active := false
	if _, err := svc.UpdateService(context.Background(), id, UpdateServiceInput{IsActive: &active}); err != nil {
		t.Fatalf("update service: %v", err)
	}
	if repo.updates["is_active"] != false {
		t.Fatalf("expected is_active update, got %v", repo.updates)
	}
}

func TestGetServiceInactiveHiddenFromPublic(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.rows[id] = &models.WorkshopService{ID: id, IsActive: false}
	svc := newTestService(repo)

	if _, err := svc.GetService(context.Background(), id, false); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.ListServices(context.Background(), "", false); err != nil || !repo.activeOnly {
		t.Fatalf("expected active-only public list, err=%v", err)
	}
}

func TestAdminWritesRunInsideTransaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.CreateService(ctx, CreateServiceInput{Code: "TROCA", Name: "Troca de oleo", Category: "motor", Price: decimal.RequireFromString("80")})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected id assigned before insert")
	}
	name := "Troca de oleo e filtro"
	if _, err := svc.UpdateService(ctx, dto.ID, UpdateServiceInput{Name: &name}); err != nil {
		t.Fatalf("update service: %v", err)
	}
	if err := svc.DeleteService(ctx, dto.ID); err != nil {
		t.Fatalf("delete service: %v", err)
	}
	if repo.untxWrites != 0 {
		t.Fatalf("expected every write inside WithTx, %d ran outside", repo.untxWrites)
	}
}
