package workshop

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultDurationMinutes = 60

// Service manages the workshop service catalog.
type Service interface {
	ListServices(ctx context.Context, category string, includeInactive bool) ([]ServiceDTO, error)
	GetService(ctx context.Context, id uuid.UUID, includeInactive bool) (*ServiceDTO, error)
	CreateService(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error)
	UpdateService(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, svc *models.WorkshopService) (*models.WorkshopService, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.WorkshopService, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.WorkshopService, error)
	List(ctx context.Context, category string, activeOnly bool) ([]models.WorkshopService, error)
}

type service struct {
	repo   repository
	tx     db.TxRunner
	txRepo func(tx *gorm.DB) repository
}

func NewService(repo *Repository, txRunner db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workshop repository required")
	}
	if txRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:   repo,
		tx:     txRunner,
		txRepo: func(tx *gorm.DB) repository { return repo.WithTx(tx) },
	}, nil
}

func (s *service) write(ctx context.Context, fn func(repo repository) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(s.txRepo(tx))
	})
}

func (s *service) ListServices(ctx context.Context, category string, includeInactive bool) ([]ServiceDTO, error) {
	rows, err := s.repo.List(ctx, category, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewServiceDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetService(ctx context.Context, id uuid.UUID, includeInactive bool) (*ServiceDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "service")
	}
	if !m.IsActive && !includeInactive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	return NewServiceDTO(m), nil
}

func (s *service) CreateService(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	duration := input.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	if duration < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration_minutes must be positive")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	m := &models.WorkshopService{
		ID:              uuid.New(),
		Code:            normalizeCode(input.Code),
		Name:            strings.TrimSpace(input.Name),
		Description:     trimOptional(input.Description),
		Category:        strings.ToLower(strings.TrimSpace(input.Category)),
		Price:           input.Price.Round(2),
		DurationMinutes: duration,
		ImageURL:        trimOptional(input.ImageURL),
		IsActive:        active,
	}
	if m.Code == "" || m.Name == "" || m.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code, name and category are required")
	}
	var created *models.WorkshopService
	err := s.write(ctx, func(repo repository) error {
		var err error
		created, err = repo.Create(ctx, m)
		return err
	})
	if err != nil {
		return nil, codeError(err)
	}
	return NewServiceDTO(created), nil
}

func (s *service) UpdateService(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	updates := map[string]any{}
	if input.Code != nil {
		code := normalizeCode(*input.Code)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "code cannot be empty")
		}
		updates["code"] = code
	}
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
	if input.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*input.Category))
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		updates["category"] = category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = input.Price.Round(2)
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration_minutes must be positive")
		}
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.ImageURL != nil {
		updates["image_url"] = trimOptional(input.ImageURL)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	var m *models.WorkshopService
	err := s.write(ctx, func(repo repository) error {
		var err error
		m, err = repo.Update(ctx, id, updates)
		return err
	})
	if err != nil {
		return nil, codeError(err)
	}
	return NewServiceDTO(m), nil
}

func (s *service) DeleteService(ctx context.Context, id uuid.UUID) error {
	err := s.write(ctx, func(repo repository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return db.MapError(err, "service")
	}
	return nil
}

func codeError(err error) error {
	if db.IsUniqueViolation(err, "services_code_key") {
		return pkgerrors.New(pkgerrors.CodeConflict, "service code already exists")
	}
	return db.MapError(err, "service")
}

func normalizeCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
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
