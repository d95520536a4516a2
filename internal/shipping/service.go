package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages shipping methods and quotes.
type Service interface {
	ListMethods(ctx context.Context, includeInactive bool) ([]MethodDTO, error)
	GetMethod(ctx context.Context, id uuid.UUID) (*MethodDTO, error)
	CreateMethod(ctx context.Context, input CreateMethodInput) (*MethodDTO, error)
	UpdateMethod(ctx context.Context, id uuid.UUID, input UpdateMethodInput) (*MethodDTO, error)
	DeleteMethod(ctx context.Context, id uuid.UUID) error
	QuoteAll(ctx context.Context, subtotal decimal.Decimal) ([]QuoteDTO, error)
}

type repository interface {
	Create(ctx context.Context, method *models.ShippingMethod) (*models.ShippingMethod, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ShippingMethod, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error)
	List(ctx context.Context, activeOnly bool) ([]models.ShippingMethod, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMethods(ctx context.Context, includeInactive bool) ([]MethodDTO, error) {
	rows, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "shipping methods")
	}
	out := make([]MethodDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewMethodDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetMethod(ctx context.Context, id uuid.UUID) (*MethodDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "shipping method")
	}
	return NewMethodDTO(m), nil
}

func (s *service) CreateMethod(ctx context.Context, input CreateMethodInput) (*MethodDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateAmounts(&input.Price, input.FreeOver); err != nil {
		return nil, err
	}
	if err := validateDays(input.EstimatedDaysMin, input.EstimatedDaysMax); err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	m := &models.ShippingMethod{
		Name:             name,
		Description:      trimOptional(input.Description),
		Carrier:          trimOptional(input.Carrier),
		Price:            input.Price.Round(2),
		FreeOver:         input.FreeOver,
		EstimatedDaysMin: input.EstimatedDaysMin,
		EstimatedDaysMax: input.EstimatedDaysMax,
		IsPickup:         input.IsPickup,
		IsActive:         active,
		Position:         input.Position,
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, db.MapError(err, "shipping method")
	}
	return NewMethodDTO(created), nil
}

func (s *service) UpdateMethod(ctx context.Context, id uuid.UUID, input UpdateMethodInput) (*MethodDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "shipping method")
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
	if input.Carrier != nil {
		updates["carrier"] = trimOptional(input.Carrier)
	}
	if err := validateAmounts(input.Price, input.FreeOver); err != nil {
		return nil, err
	}
	if input.Price != nil {
		updates["price"] = input.Price.Round(2)
	}
	switch {
	case input.ClearFreeOver:
		updates["free_over"] = nil
	case input.FreeOver != nil:
		updates["free_over"] = input.FreeOver.Round(2)
	}
	minDays, maxDays := current.EstimatedDaysMin, current.EstimatedDaysMax
	if input.EstimatedDaysMin != nil {
		minDays = *input.EstimatedDaysMin
		updates["estimated_days_min"] = minDays
	}
	if input.EstimatedDaysMax != nil {
		maxDays = *input.EstimatedDaysMax
		updates["estimated_days_max"] = maxDays
	}
	if err := validateDays(minDays, maxDays); err != nil {
		return nil, err
	}
	if input.IsPickup != nil {
		updates["is_pickup"] = *input.IsPickup
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	m, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "shipping method")
	}
	return NewMethodDTO(m), nil
}

func (s *service) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.MapError(err, "shipping method")
	}
	return nil
}

func (s *service) QuoteAll(ctx context.Context, subtotal decimal.Decimal) ([]QuoteDTO, error) {
	if subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}
	rows, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, db.MapError(err, "shipping methods")
	}
	out := make([]QuoteDTO, 0, len(rows))
	for i := range rows {
		price := Quote(&rows[i], subtotal)
		out = append(out, QuoteDTO{MethodID: rows[i].ID, Name: rows[i].Name, Price: price, Free: price.IsZero()})
	}
	return out, nil
}

func validateAmounts(price, freeOver *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if freeOver != nil && freeOver.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "free_over cannot be negative")
	}
	return nil
}

func validateDays(minDays, maxDays int) error {
	if minDays < 0 || maxDays < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated days cannot be negative")
	}
	if maxDays < minDays {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated_days_max must be >= estimated_days_min").
			WithDetails(map[string]any{"estimated_days_min": minDays, "estimated_days_max": maxDays})
	}
	return nil
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
