package vehicles

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/plates"
	"github.com/google/uuid"
)

// Service manages the make/model/variant catalog and customer garages.
type Service interface {
	ListMakes(ctx context.Context) ([]MakeDTO, error)
	CreateMake(ctx context.Context, input MakeInput) (*MakeDTO, error)
	UpdateMake(ctx context.Context, id uuid.UUID, input MakeInput) (*MakeDTO, error)
	DeleteMake(ctx context.Context, id uuid.UUID) error

	ListModels(ctx context.Context, makeID uuid.UUID) ([]ModelDTO, error)
	CreateModel(ctx context.Context, makeID uuid.UUID, input ModelInput) (*ModelDTO, error)
	UpdateModel(ctx context.Context, id uuid.UUID, input ModelInput) (*ModelDTO, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context, modelID uuid.UUID) ([]VariantDTO, error)
	CreateVariant(ctx context.Context, modelID uuid.UUID, input VariantInput) (*VariantDTO, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, input VariantInput) (*VariantDTO, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]CustomerVehicleDTO, error)
	AddCustomerVehicle(ctx context.Context, customerID uuid.UUID, input CreateCustomerVehicleInput) (*CustomerVehicleDTO, error)
	UpdateCustomerVehicle(ctx context.Context, customerID, id uuid.UUID, input UpdateCustomerVehicleInput) (*CustomerVehicleDTO, error)
	DeleteCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) error
}

type repository interface {
	ListMakes(ctx context.Context) ([]models.VehicleMake, error)
	FindMake(ctx context.Context, id uuid.UUID) (*models.VehicleMake, error)
	CreateMake(ctx context.Context, row *models.VehicleMake) error
	UpdateMake(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleMake, error)
	DeleteMake(ctx context.Context, id uuid.UUID) error
	ListModels(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error)
	FindModel(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error)
	CreateModel(ctx context.Context, row *models.VehicleModel) error
	UpdateModel(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleModel, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error
	ListVariants(ctx context.Context, modelID uuid.UUID) ([]models.VehicleVariant, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.VehicleVariant, error)
	CreateVariant(ctx context.Context, row *models.VehicleVariant) error
	UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleVariant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]models.CustomerVehicle, error)
	FindCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerVehicle, error)
	CreateCustomerVehicle(ctx context.Context, row *models.CustomerVehicle) error
	UpdateCustomerVehicle(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) (*models.CustomerVehicle, error)
	DeleteCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMakes(ctx context.Context) ([]MakeDTO, error) {
	rows, err := s.repo.ListMakes(ctx)
	if err != nil {
		return nil, db.MapError(err, "vehicle makes")
	}
	out := make([]MakeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newMakeDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateMake(ctx context.Context, input MakeInput) (*MakeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row := &models.VehicleMake{Name: name, LogoURL: trimOptional(input.LogoURL)}
	if err := s.repo.CreateMake(ctx, row); err != nil {
		return nil, uniqueError(err, "vehicle_makes_name_key", "vehicle make already exists", "vehicle make")
	}
	dto := newMakeDTO(row)
	return &dto, nil
}

func (s *service) UpdateMake(ctx context.Context, id uuid.UUID, input MakeInput) (*MakeDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row, err := s.repo.UpdateMake(ctx, id, map[string]any{"name": name, "logo_url": trimOptional(input.LogoURL)})
	if err != nil {
		return nil, uniqueError(err, "vehicle_makes_name_key", "vehicle make already exists", "vehicle make")
	}
	dto := newMakeDTO(row)
	return &dto, nil
}

func (s *service) DeleteMake(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteMake(ctx, id), "vehicle make")
}

func (s *service) ListModels(ctx context.Context, makeID uuid.UUID) ([]ModelDTO, error) {
	if _, err := s.repo.FindMake(ctx, makeID); err != nil {
		return nil, db.MapError(err, "vehicle make")
	}
	rows, err := s.repo.ListModels(ctx, makeID)
	if err != nil {
		return nil, db.MapError(err, "vehicle models")
	}
	out := make([]ModelDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newModelDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateModel(ctx context.Context, makeID uuid.UUID, input ModelInput) (*ModelDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.repo.FindMake(ctx, makeID); err != nil {
		return nil, db.MapError(err, "vehicle make")
	}
	row := &models.VehicleModel{MakeID: makeID, Name: name}
	if err := s.repo.CreateModel(ctx, row); err != nil {
		return nil, uniqueError(err, "vehicle_models_make_name_key", "model already exists for this make", "vehicle model")
	}
	dto := newModelDTO(row)
	return &dto, nil
}

func (s *service) UpdateModel(ctx context.Context, id uuid.UUID, input ModelInput) (*ModelDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row, err := s.repo.UpdateModel(ctx, id, map[string]any{"name": name})
	if err != nil {
		return nil, uniqueError(err, "vehicle_models_make_name_key", "model already exists for this make", "vehicle model")
	}
	dto := newModelDTO(row)
	return &dto, nil
}

func (s *service) DeleteModel(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteModel(ctx, id), "vehicle model")
}

func (s *service) ListVariants(ctx context.Context, modelID uuid.UUID) ([]VariantDTO, error) {
	if _, err := s.repo.FindModel(ctx, modelID); err != nil {
		return nil, db.MapError(err, "vehicle model")
	}
	rows, err := s.repo.ListVariants(ctx, modelID)
	if err != nil {
		return nil, db.MapError(err, "vehicle variants")
	}
	out := make([]VariantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newVariantDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateVariant(ctx context.Context, modelID uuid.UUID, input VariantInput) (*VariantDTO, error) {
	if err := validateVariant(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindModel(ctx, modelID); err != nil {
		return nil, db.MapError(err, "vehicle model")
	}
	row := &models.VehicleVariant{
		ModelID:  modelID,
		Name:     strings.TrimSpace(input.Name),
		YearFrom: input.YearFrom,
		YearTo:   input.YearTo,
		Engine:   trimOptional(input.Engine),
		Fuel:     input.Fuel,
	}
	if err := s.repo.CreateVariant(ctx, row); err != nil {
		return nil, db.MapError(err, "vehicle variant")
	}
	dto := newVariantDTO(row)
	return &dto, nil
}

func (s *service) UpdateVariant(ctx context.Context, id uuid.UUID, input VariantInput) (*VariantDTO, error) {
	if err := validateVariant(input); err != nil {
		return nil, err
	}
	row, err := s.repo.UpdateVariant(ctx, id, map[string]any{
		"name":      strings.TrimSpace(input.Name),
		"year_from": input.YearFrom,
		"year_to":   input.YearTo,
		"engine":    trimOptional(input.Engine),
		"fuel":      input.Fuel,
	})
	if err != nil {
		return nil, db.MapError(err, "vehicle variant")
	}
	dto := newVariantDTO(row)
	return &dto, nil
}

func (s *service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteVariant(ctx, id), "vehicle variant")
}

func (s *service) ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]CustomerVehicleDTO, error) {
	rows, err := s.repo.ListCustomerVehicles(ctx, customerID)
	if err != nil {
		return nil, db.MapError(err, "vehicles")
	}
	out := make([]CustomerVehicleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newCustomerVehicleDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) AddCustomerVehicle(ctx context.Context, customerID uuid.UUID, input CreateCustomerVehicleInput) (*CustomerVehicleDTO, error) {
	plate, err := plates.Normalize(input.Plate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plate").
			WithDetails(map[string]any{"plate": input.Plate})
	}
	brand, model := strings.TrimSpace(input.Make), strings.TrimSpace(input.Model)
	if brand == "" || model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make and model are required")
	}
	if input.VariantID != nil {
		if err := s.ensureVariant(ctx, *input.VariantID); err != nil {
			return nil, err
		}
	}
	row := &models.CustomerVehicle{
		CustomerID: customerID,
		Plate:      plate,
		Make:       brand,
		Model:      model,
		Year:       input.Year,
		Color:      trimOptional(input.Color),
		VariantID:  input.VariantID,
	}
	if err := s.repo.CreateCustomerVehicle(ctx, row); err != nil {
		return nil, uniqueError(err, "customer_vehicles_customer_plate_key", "vehicle with this plate already registered", "vehicle")
	}
	return newCustomerVehicleDTO(row), nil
}

func (s *service) UpdateCustomerVehicle(ctx context.Context, customerID, id uuid.UUID, input UpdateCustomerVehicleInput) (*CustomerVehicleDTO, error) {
	updates := map[string]any{}
	if input.Make != nil {
		if v := strings.TrimSpace(*input.Make); v != "" {
			updates["make"] = v
		}
	}
	if input.Model != nil {
		if v := strings.TrimSpace(*input.Model); v != "" {
			updates["model"] = v
		}
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Color != nil {
		updates["color"] = trimOptional(input.Color)
	}
	if input.VariantID.Set {
		if input.VariantID.Value != nil {
			if err := s.ensureVariant(ctx, *input.VariantID.Value); err != nil {
				return nil, err
			}
		}
		updates["variant_id"] = input.VariantID.Value
	}
	row, err := s.repo.UpdateCustomerVehicle(ctx, customerID, id, updates)
	if err != nil {
		return nil, db.MapError(err, "vehicle")
	}
	return newCustomerVehicleDTO(row), nil
}

func (s *service) DeleteCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteCustomerVehicle(ctx, customerID, id), "vehicle")
}

func (s *service) ensureVariant(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindVariant(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant not found")
		}
		return db.MapError(err, "vehicle variant")
	}
	return nil
}

func validateVariant(input VariantInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.YearTo != nil && *input.YearTo < input.YearFrom {
		return pkgerrors.New(pkgerrors.CodeValidation, "year_to must not be before year_from")
	}
	if input.Fuel != nil && !input.Fuel.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid fuel type")
	}
	return nil
}

func uniqueError(err error, constraint, message, resource string) error {
	if db.IsUniqueViolation(err, constraint) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message)
	}
	return db.MapError(err, resource)
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
