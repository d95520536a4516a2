package vehicles

import (
	"context"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the vehicle catalog and customer garages.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListMakes(ctx context.Context) ([]models.VehicleMake, error) {
	var rows []models.VehicleMake
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindMake(ctx context.Context, id uuid.UUID) (*models.VehicleMake, error) {
	var row models.VehicleMake
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateMake(ctx context.Context, row *models.VehicleMake) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateMake(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleMake, error) {
	if err := r.update(ctx, &models.VehicleMake{}, id, updates); err != nil {
		return nil, err
	}
	return r.FindMake(ctx, id)
}

func (r *Repository) DeleteMake(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.VehicleMake{}, id)
}

func (r *Repository) ListModels(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error) {
	var rows []models.VehicleModel
	if err := r.db.WithContext(ctx).Where("make_id = ?", makeID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindModel(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error) {
	var row models.VehicleModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateModel(ctx context.Context, row *models.VehicleModel) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateModel(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleModel, error) {
	if err := r.update(ctx, &models.VehicleModel{}, id, updates); err != nil {
		return nil, err
	}
	return r.FindModel(ctx, id)
}

func (r *Repository) DeleteModel(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.VehicleModel{}, id)
}

func (r *Repository) ListVariants(ctx context.Context, modelID uuid.UUID) ([]models.VehicleVariant, error) {
	var rows []models.VehicleVariant
	if err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("year_from DESC").Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.VehicleVariant, error) {
	var row models.VehicleVariant
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateVariant(ctx context.Context, row *models.VehicleVariant) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.VehicleVariant, error) {
	if err := r.update(ctx, &models.VehicleVariant{}, id, updates); err != nil {
		return nil, err
	}
	return r.FindVariant(ctx, id)
}

func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.VehicleVariant{}, id)
}

// ListCustomerVehicles returns a customer's garage, newest first.
func (r *Repository) ListCustomerVehicles(ctx context.Context, customerID uuid.UUID) ([]models.CustomerVehicle, error) {
	var rows []models.CustomerVehicle
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCustomerVehicle scopes the lookup to the owning customer.
func (r *Repository) FindCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerVehicle, error) {
	var row models.CustomerVehicle
	if err := r.db.WithContext(ctx).First(&row, "id = ? AND customer_id = ?", id, customerID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateCustomerVehicle(ctx context.Context, row *models.CustomerVehicle) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateCustomerVehicle(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) (*models.CustomerVehicle, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.CustomerVehicle{}).
			Where("id = ? AND customer_id = ?", id, customerID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindCustomerVehicle(ctx, customerID, id)
}

func (r *Repository) DeleteCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.CustomerVehicle{}, "id = ? AND customer_id = ?", id, customerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) update(ctx context.Context, model any, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) delete(ctx context.Context, model any, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
