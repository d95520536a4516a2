package cms

import (
	"context"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const footerID = 1

// Repository persists storefront content.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListHeroes(ctx context.Context, activeOnly bool) ([]models.CmsHero, error) {
	var rows []models.CmsHero
	err := r.ordered(ctx, &models.CmsHero{}, activeOnly).Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateHero(ctx context.Context, row *models.CmsHero) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateHero(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.CmsHero, error) {
	if err := r.update(ctx, &models.CmsHero{}, id, updates); err != nil {
		return nil, err
	}
	var row models.CmsHero
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) DeleteHero(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.CmsHero{}, id)
}

func (r *Repository) ListMarquee(ctx context.Context, activeOnly bool) ([]models.MarqueeMessage, error) {
	var rows []models.MarqueeMessage
	err := r.ordered(ctx, &models.MarqueeMessage{}, activeOnly).Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateMarquee(ctx context.Context, row *models.MarqueeMessage) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateMarquee(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.MarqueeMessage, error) {
	if err := r.update(ctx, &models.MarqueeMessage{}, id, updates); err != nil {
		return nil, err
	}
	var row models.MarqueeMessage
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) DeleteMarquee(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.MarqueeMessage{}, id)
}

// Footer returns gorm.ErrRecordNotFound until the first upsert.
func (r *Repository) Footer(ctx context.Context) (*models.CmsFooter, error) {
	var row models.CmsFooter
	if err := r.db.WithContext(ctx).First(&row, "id = ?", footerID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertFooter replaces every footer column on the single row.
func (r *Repository) UpsertFooter(ctx context.Context, row *models.CmsFooter) error {
	row.ID = footerID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (r *Repository) ordered(ctx context.Context, model any, activeOnly bool) *gorm.DB {
	q := r.db.WithContext(ctx).Model(model)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return q.Order("position ASC").Order("created_at ASC")
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
