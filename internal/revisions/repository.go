package revisions

import (
	"context"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows revision listings. Zero values mean "any".
type ListFilter struct {
	CustomerID *uuid.UUID
	Status     *enums.RevisionStatus
	Plate      string
}

// Repository persists checklist templates and revisions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListCategories returns categories with their items, both ordered by position.
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.ChecklistCategory, error) {
	q := r.db.WithContext(ctx).Preload("Items", func(q *gorm.DB) *gorm.DB {
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		return q.Order("position ASC").Order("name ASC")
	})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.ChecklistCategory
	if err := q.Order("position ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.ChecklistCategory, error) {
	var row models.ChecklistCategory
	if err := r.db.WithContext(ctx).Preload("Items").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateCategory(ctx context.Context, row *models.ChecklistCategory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ChecklistCategory, error) {
	if err := r.update(ctx, &models.ChecklistCategory{}, id, updates); err != nil {
		return nil, err
	}
	return r.FindCategory(ctx, id)
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.ChecklistCategory{}, id)
}

func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.ChecklistItem, error) {
	var row models.ChecklistItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateItem(ctx context.Context, row *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ChecklistItem, error) {
	if err := r.update(ctx, &models.ChecklistItem{}, id, updates); err != nil {
		return nil, err
	}
	return r.FindItem(ctx, id)
}

func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.ChecklistItem{}, id)
}

// CreateRevision inserts the revision with its snapshotted entries.
func (r *Repository) CreateRevision(ctx context.Context, row *models.Revision) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) FindRevision(ctx context.Context, id uuid.UUID) (*models.Revision, error) {
	var row models.Revision
	if err := r.withEntries(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindForCustomer returns the revision only when it belongs to customerID.
func (r *Repository) FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Revision, error) {
	var row models.Revision
	if err := r.withEntries(ctx).First(&row, "id = ? AND customer_id = ?", id, customerID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockRevision loads the revision with its entries and locks the revision row.
func (r *Repository) LockRevision(ctx context.Context, id uuid.UUID) (*models.Revision, error) {
	var row models.Revision
	err := r.withEntries(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Revision, error) {
	q := r.db.WithContext(ctx).Model(&models.Revision{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Plate != "" {
		q = q.Where("plate = ?", filter.Plate)
	}
	var rows []models.Revision
	if err := q.Scopes(pagination.Scope(cursor, limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateRevision applies updates only while the revision is in one of statuses.
func (r *Repository) UpdateRevision(ctx context.Context, id uuid.UUID, statuses []enums.RevisionStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Revision{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, revisionID, entryID uuid.UUID, updates map[string]any) (*models.RevisionChecklistEntry, error) {
	res := r.db.WithContext(ctx).Model(&models.RevisionChecklistEntry{}).
		Where("id = ? AND revision_id = ?", entryID, revisionID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var row models.RevisionChecklistEntry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", entryID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) withEntries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Entries", func(q *gorm.DB) *gorm.DB {
		return q.Order("position ASC").Order("item_name ASC")
	})
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
