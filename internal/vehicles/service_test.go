package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	makes    map[uuid.UUID]*models.VehicleMake
	models   map[uuid.UUID]*models.VehicleModel
	variants map[uuid.UUID]*models.VehicleVariant
	garage   map[uuid.UUID]*models.CustomerVehicle
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		makes:    map[uuid.UUID]*models.VehicleMake{},
		models:   map[uuid.UUID]*models.VehicleModel{},
		variants: map[uuid.UUID]*models.VehicleVariant{},
		garage:   map[uuid.UUID]*models.CustomerVehicle{},
	}
}

var errDuplicate = errors.New(`ERROR: duplicate key value violates unique constraint "customer_vehicles_customer_plate_key"`)

func (f *fakeRepo) ListMakes(ctx context.Context) ([]models.VehicleMake, error) {
	var out []models.VehicleMake
	for _, m := range f.makes {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeRepo) FindMake(ctx context.Context, id uuid.UUID) (*models.VehicleMake, error) {
	if m, ok := f.makes[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateMake(ctx context.Context, row *models.VehicleMake) error {
	row.ID = uuid.New()
	f.makes[row.ID] = row
	return nil
}

func (f *fakeRepo) UpdateMake(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleMake, error) {
	m, ok := f.makes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.Name = updates["name"].(string)
	return m, nil
}

func (f *fakeRepo) DeleteMake(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.makes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.makes, id)
	return nil
}

func (f *fakeRepo) ListModels(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error) {
	var out []models.VehicleModel
	for _, m := range f.models {
		if m.MakeID == makeID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindModel(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error) {
	if m, ok := f.models[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateModel(ctx context.Context, row *models.VehicleModel) error {
	row.ID = uuid.New()
	f.models[row.ID] = row
	return nil
}

func (f *fakeRepo) UpdateModel(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleModel, error) {
	m, ok := f.models[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.Name = updates["name"].(string)
	return m, nil
}

func (f *fakeRepo) DeleteModel(ctx context.Context, id uuid.UUID) error {
	delete(f.models, id)
	return nil
}

func (f *fakeRepo) ListVariants(ctx context.Context, modelID uuid.UUID) ([]models.VehicleVariant, error) {
	var out []models.VehicleVariant
	for _, v := range f.variants {
		if v.ModelID == modelID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindVariant(ctx context.Context, id uuid.UUID) (*models.VehicleVariant, error) {
	if v, ok := f.variants[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateVariant(ctx context.Context, row *models.VehicleVariant) error {
	row.ID = uuid.New()
	f.variants[row.ID] = row
	return nil
}

func (f *fakeRepo) UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleVariant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v.Name = updates["name"].(string)
	return v, nil
}

func (f *fakeRepo) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	delete(f.variants, id)
	return nil
}

func (f *fakeRepo) ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]models.CustomerVehicle, error) {
	var out []models.CustomerVehicle
	for _, v := range f.garage {
		if v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerVehicle, error) {
	v, ok := f.garage[id]
	if !ok || v.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeRepo) CreateCustomerVehicle(ctx context.Context, row *models.CustomerVehicle) error {
	for _, v := range f.garage {
		if v.CustomerID == row.CustomerID && v.Plate == row.Plate {
			return errDuplicate
		}
	}
	row.ID = uuid.New()
	f.garage[row.ID] = row
	return nil
}

func (f *fakeRepo) UpdateCustomerVehicle(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) (*models.CustomerVehicle, error) {
	v, err := f.FindCustomerVehicle(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if raw, ok := updates["variant_id"]; ok {
		v.VariantID = raw.(*uuid.UUID)
	}
	if model, ok := updates["model"].(string); ok {
		v.Model = model
	}
	return v, nil
}

func (f *fakeRepo) DeleteCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) error {
	if _, err := f.FindCustomerVehicle(ctx, customerID, id); err != nil {
		return err
	}
	delete(f.garage, id)
	return nil
}

func newTestService(t *testing.T) (*service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.(*service), repo
}

func TestAddCustomerVehicleNormalizesPlate(t *testing.T) {
	svc, _ := newTestService(t)
	customerID := uuid.New()

	out, err := svc.AddCustomerVehicle(context.Background(), customerID, CreateCustomerVehicleInput{
		Plate: "abc-1d23", Make: " Fiat ", Model: "Uno",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if out.Plate != "ABC1D23" || out.Make != "Fiat" {
		t.Fatalf("unexpected vehicle %+v", out)
	}

	_, err = svc.AddCustomerVehicle(context.Background(), customerID, CreateCustomerVehicleInput{
		Plate: "ABC1D23", Make: "Fiat", Model: "Uno",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict on duplicate plate, got %v", err)
	}

	_, err = svc.AddCustomerVehicle(context.Background(), customerID, CreateCustomerVehicleInput{
		Plate: "AB12", Make: "Fiat", Model: "Uno",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateCustomerVehicleVariantLinking(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()

	variant := &models.VehicleVariant{Name: "1.0 MPI", YearFrom: 2017}
	_ = repo.CreateVariant(ctx, variant)

	created, err := svc.AddCustomerVehicle(ctx, customerID, CreateCustomerVehicleInput{
		Plate: "ABC1234", Make: "Fiat", Model: "Mobi", VariantID: &variant.ID,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var keep UpdateCustomerVehicleInput
	if err := json.Unmarshal([]byte(`{"model":"Mobi Like"}`), &keep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := svc.UpdateCustomerVehicle(ctx, customerID, created.ID, keep)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.VariantID == nil || out.Model != "Mobi Like" {
		t.Fatalf("variant should be kept when absent, got %+v", out)
	}

	var unlink UpdateCustomerVehicleInput
	if err := json.Unmarshal([]byte(`{"variant_id":null}`), &unlink); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err = svc.UpdateCustomerVehicle(ctx, customerID, created.ID, unlink)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.VariantID != nil {
		t.Fatalf("expected variant to be unlinked")
	}

	missing := uuid.New()
	_, err = svc.UpdateCustomerVehicle(ctx, customerID, created.ID, UpdateCustomerVehicleInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"variant_id":"`+missing.String()+`"}`), &unlink); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := svc.UpdateCustomerVehicle(ctx, customerID, created.ID, unlink); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown variant, got %v", err)
	}
}

func TestCustomerVehiclesAreScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.AddCustomerVehicle(ctx, owner, CreateCustomerVehicleInput{Plate: "XYZ9876", Make: "Ford", Model: "Ka"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteCustomerVehicle(ctx, uuid.New(), created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for another customer, got %v", err)
	}
	if err := svc.DeleteCustomerVehicle(ctx, owner, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCatalogHierarchy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateModel(ctx, uuid.New(), ModelInput{Name: "Onix"}); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown make, got %v", err)
	}
	brand, err := svc.CreateMake(ctx, MakeInput{Name: "Chevrolet"})
	if err != nil {
		t.Fatalf("create make: %v", err)
	}
	model, err := svc.CreateModel(ctx, brand.ID, ModelInput{Name: "Onix"})
	if err != nil {
		t.Fatalf("create model: %v", err)
	}
	yearTo := 2015
	if _, err := svc.CreateVariant(ctx, model.ID, VariantInput{Name: "LT", YearFrom: 2019, YearTo: &yearTo}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for inverted years, got %v", err)
	}
	if _, err := svc.CreateVariant(ctx, model.ID, VariantInput{Name: "LT 1.0", YearFrom: 2019}); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	variants, err := svc.ListVariants(ctx, model.ID)
	if err != nil || len(variants) != 1 {
		t.Fatalf("expected one variant, got %v %v", variants, err)
	}
}
