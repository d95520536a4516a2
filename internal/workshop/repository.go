package workshop

import (
	"context"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists workshop services.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, svc *models.WorkshopService) (*models.WorkshopService, error) {
	if err := r.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.WorkshopService, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.WorkshopService{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.WorkshopService{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkshopService, error) {
	var svc models.WorkshopService
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// FindActiveByIDs loads the active services among ids.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.WorkshopService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.WorkshopService
	if err := r.db.WithContext(ctx).Where("id IN ? AND is_active = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns services ordered by category then name.
func (r *Repository) List(ctx context.Context, category string, activeOnly bool) ([]models.WorkshopService, error) {
	q := r.db.WithContext(ctx).Model(&models.WorkshopService{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if c := strings.TrimSpace(category); c != "" {
		q = q.Where("category = ?", strings.ToLower(c))
	}
	var rows []models.WorkshopService
	if err := q.Order("category ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
