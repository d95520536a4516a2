package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type fakeRepo struct {
	customers   map[uuid.UUID]*models.Customer
	admins      []models.Admin
	lastUpdates map[string]any
	createErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: map[uuid.UUID]*models.Customer{}}
}

func (f *fakeRepo) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeRepo) UpdateCustomer(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Customer, error) {
	f.lastUpdates = updates
	c, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	if v, ok := updates["is_active"].(bool); ok {
		c.IsActive = v
	}
	return c, nil
}

func (f *fakeRepo) ListCustomers(ctx context.Context, query string, cursor *pagination.Cursor, limit int) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	admin.ID = uuid.New()
	f.admins = append(f.admins, *admin)
	return admin, nil
}

func (f *fakeRepo) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	return f.admins, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
}

func TestUpdateProfileTrimsAndRejectsBlankName(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.customers[id] = &models.Customer{ID: id, Name: "Old", Email: "a@b.com", IsActive: true, CreatedAt: time.Now()}
	svc, err := NewService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	name := "  Maria  "
	dto, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.Name != "Maria" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}

	blank := "   "
	_, err = svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Name: &blank})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	svc, _ := NewService(newFakeRepo(), testPasswordConfig())
	_, err := svc.GetCustomer(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetCustomerActive(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.customers[id] = &models.Customer{ID: id, IsActive: true}
	svc, _ := NewService(repo, testPasswordConfig())

	dto, err := svc.SetCustomerActive(context.Background(), id, false)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected customer to be deactivated")
	}
}

func TestListCustomersRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(newFakeRepo(), testPasswordConfig())
	_, err := svc.ListCustomers(context.Background(), "", pagination.Params{Cursor: "%%%"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAdmin(t *testing.T) {
	t.Run("lowercasesEmailAndHashes", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := NewService(repo, testPasswordConfig())
		dto, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
			Name:     "Op",
			Email:    " Staff@Example.com ",
			Password: "secret123",
			Role:     "admin",
		})
		if err != nil {
			t.Fatalf("create admin: %v", err)
		}
		if dto.Email != "staff@example.com" {
			t.Fatalf("expected lowercase email, got %q", dto.Email)
		}
		if repo.admins[0].PasswordHash == "secret123" || repo.admins[0].PasswordHash == "" {
			t.Fatal("expected hashed password")
		}
	})

	t.Run("rejectsCustomerRole", func(t *testing.T) {
		svc, _ := NewService(newFakeRepo(), testPasswordConfig())
		_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Name: "Op", Email: "x@y.com", Password: "secret123", Role: "customer"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("duplicateEmailConflicts", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "admins_email_key"}
		svc, _ := NewService(repo, testPasswordConfig())
		_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Name: "Op", Email: "x@y.com", Password: "secret123", Role: "superadmin"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("internalErrorWrapped", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = errors.New("boom")
		svc, _ := NewService(repo, testPasswordConfig())
		_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{Name: "Op", Email: "x@y.com", Password: "secret123", Role: "admin"})
		if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}
