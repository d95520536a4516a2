package support

import (
	"context"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketFilter narrows ticket listings. Zero values mean "any".
type TicketFilter struct {
	CustomerID *uuid.UUID
	Status     *enums.TicketStatus
}

// Repository persists support tickets, their messages and FAQ entries.
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

// CreateTicket inserts the ticket together with its first message.
func (r *Repository) CreateTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *Repository) FindTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var row models.SupportTicket
	if err := r.withMessages(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindTicketForCustomer returns the ticket only when it belongs to customerID.
func (r *Repository) FindTicketForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.SupportTicket, error) {
	var row models.SupportTicket
	if err := r.withMessages(ctx).First(&row, "id = ? AND customer_id = ?", id, customerID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockTicket loads a ticket row FOR UPDATE without its messages.
func (r *Repository) LockTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var row models.SupportTicket
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListTickets(ctx context.Context, filter TicketFilter, cursor *pagination.Cursor, limit int) ([]models.SupportTicket, error) {
	q := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var rows []models.SupportTicket
	if err := q.Scopes(pagination.Scope(cursor, limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateTicket(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateMessage(ctx context.Context, msg *models.SupportMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *Repository) ListFAQ(ctx context.Context, category string, publishedOnly bool) ([]models.FAQEntry, error) {
	q := r.db.WithContext(ctx).Model(&models.FAQEntry{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var rows []models.FAQEntry
	if err := q.Order("category ASC").Order("position ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindFAQ(ctx context.Context, id uuid.UUID) (*models.FAQEntry, error) {
	var row models.FAQEntry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateFAQ(ctx context.Context, row *models.FAQEntry) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) UpdateFAQ(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.FAQEntry, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.FAQEntry{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindFAQ(ctx, id)
}

func (r *Repository) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.FAQEntry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) withMessages(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Messages", func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC").Order("id ASC")
	})
}
