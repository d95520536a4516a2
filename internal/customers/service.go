package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/angelmondragon/autocenter-backend/pkg/security"
	"github.com/google/uuid"
)

// Service exposes profile and account management operations.
type Service interface {
	GetProfile(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, query string, params pagination.Params) (*pagination.Page[CustomerDTO], error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	SetCustomerActive(ctx context.Context, customerID uuid.UUID, active bool) (*CustomerDTO, error)
	ListAdmins(ctx context.Context) ([]AdminDTO, error)
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminDTO, error)
}

type repository interface {
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Customer, error)
	ListCustomers(ctx context.Context, query string, cursor *pagination.Cursor, limit int) ([]models.Customer, error)
	CreateAdmin(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
}

type service struct {
	repo        repository
	passwordCfg config.PasswordConfig
}

// NewService constructs the customers service.
func NewService(repo repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) GetProfile(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	return s.GetCustomer(ctx, customerID)
}

func (s *service) UpdateProfile(ctx context.Context, customerID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = optionalString(input.Phone)
	}
	if input.Document != nil {
		updates["document"] = optionalString(input.Document)
	}
	customer, err := s.repo.UpdateCustomer(ctx, customerID, updates)
	if err != nil {
		return nil, db.MapError(err, "customer")
	}
	return FromCustomer(customer), nil
}

func (s *service) ListCustomers(ctx context.Context, query string, params pagination.Params) (*pagination.Page[CustomerDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListCustomers(ctx, query, cursor, params.Limit)
	if err != nil {
		return nil, db.MapError(err, "customers")
	}
	page := pagination.Build(rows, params.Limit, func(c models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	items := make([]CustomerDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *FromCustomer(&page.Items[i]))
	}
	return &pagination.Page[CustomerDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, db.MapError(err, "customer")
	}
	return FromCustomer(customer), nil
}

func (s *service) SetCustomerActive(ctx context.Context, customerID uuid.UUID, active bool) (*CustomerDTO, error) {
	customer, err := s.repo.UpdateCustomer(ctx, customerID, map[string]any{"is_active": active})
	if err != nil {
		return nil, db.MapError(err, "customer")
	}
	return FromCustomer(customer), nil
}

func (s *service) ListAdmins(ctx context.Context) ([]AdminDTO, error) {
	rows, err := s.repo.ListAdmins(ctx)
	if err != nil {
		return nil, db.MapError(err, "admins")
	}
	out := make([]AdminDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromAdmin(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminDTO, error) {
	role, err := enums.ParseActorRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if err != nil || !role.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin or superadmin")
	}
	if err := security.CheckPolicy(input.Password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	admin, err := s.repo.CreateAdmin(ctx, &models.Admin{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role.String(),
		IsActive:     true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}
	return FromAdmin(admin), nil
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
