package revisions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/angelmondragon/autocenter-backend/pkg/plates"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// categoryPositionStride keeps snapshotted entries grouped by category.
const categoryPositionStride = 1000

var (
	openStatuses = []enums.RevisionStatus{enums.RevisionStatusScheduled, enums.RevisionStatusInProgress}

	allowedTransitions = map[enums.RevisionStatus][]enums.RevisionStatus{
		enums.RevisionStatusScheduled:  {enums.RevisionStatusInProgress, enums.RevisionStatusCancelled},
		enums.RevisionStatusInProgress: {enums.RevisionStatusCompleted, enums.RevisionStatusCancelled},
	}
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type checklistStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]models.ChecklistCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.ChecklistCategory, error)
	CreateCategory(ctx context.Context, row *models.ChecklistCategory) error
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ChecklistCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, row *models.ChecklistItem) error
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ChecklistItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type revisionStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]models.ChecklistCategory, error)
	CreateRevision(ctx context.Context, row *models.Revision) error
	FindRevision(ctx context.Context, id uuid.UUID) (*models.Revision, error)
	FindForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Revision, error)
	LockRevision(ctx context.Context, id uuid.UUID) (*models.Revision, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Revision, error)
	UpdateRevision(ctx context.Context, id uuid.UUID, statuses []enums.RevisionStatus, updates map[string]any) (bool, error)
	UpdateEntry(ctx context.Context, revisionID, entryID uuid.UUID, updates map[string]any) (*models.RevisionChecklistEntry, error)
}

type garage interface {
	FindCustomerVehicle(ctx context.Context, customerID, id uuid.UUID) (*models.CustomerVehicle, error)
}

// Service manages checklist templates and workshop revisions.
type Service interface {
	ListChecklist(ctx context.Context, includeInactive bool) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, categoryID uuid.UUID, input ItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	Create(ctx context.Context, input CreateRevisionInput) (*RevisionDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[RevisionDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*RevisionDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*pagination.Page[RevisionDTO], error)
	GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*RevisionDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRevisionInput) (*RevisionDTO, error)
	UpdateEntry(ctx context.Context, revisionID, entryID uuid.UUID, input UpdateEntryInput) (*EntryDTO, error)
	Transition(ctx context.Context, actorID uuid.UUID, id uuid.UUID, to enums.RevisionStatus) (*RevisionDTO, error)
}

// ServiceParams wires the revision service.
type ServiceParams struct {
	DB       txRunner
	Repo     *Repository
	Vehicles garage
	Outbox   outboxPublisher
	Logger   *logger.Logger
}

type service struct {
	tx        txRunner
	checklist checklistStore
	repo      revisionStore
	txRepo    func(tx *gorm.DB) revisionStore
	vehicles  garage
	outbox    outboxPublisher
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("revisions repository required")
	case params.Vehicles == nil:
		return nil, fmt.Errorf("vehicles repository required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	repo := params.Repo
	return &service{
		tx:        params.DB,
		checklist: repo,
		repo:      repo,
		txRepo:    func(tx *gorm.DB) revisionStore { return repo.WithTx(tx) },
		vehicles:  params.Vehicles,
		outbox:    params.Outbox,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

func (s *service) ListChecklist(ctx context.Context, includeInactive bool) ([]CategoryDTO, error) {
	rows, err := s.checklist.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "checklist")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newCategoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row := &models.ChecklistCategory{Name: name, Position: input.Position, IsActive: boolOr(input.IsActive, true)}
	if err := s.checklist.CreateCategory(ctx, row); err != nil {
		return nil, db.MapError(err, "checklist category")
	}
	dto := newCategoryDTO(row)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	updates := map[string]any{"name": name, "position": input.Position}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	row, err := s.checklist.UpdateCategory(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "checklist category")
	}
	dto := newCategoryDTO(row)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.checklist.DeleteCategory(ctx, id), "checklist category")
}

func (s *service) CreateItem(ctx context.Context, categoryID uuid.UUID, input ItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.checklist.FindCategory(ctx, categoryID); err != nil {
		return nil, db.MapError(err, "checklist category")
	}
	row := &models.ChecklistItem{
		CategoryID:  categoryID,
		Name:        name,
		Description: trimOptional(input.Description),
		Position:    input.Position,
		IsActive:    boolOr(input.IsActive, true),
	}
	if err := s.checklist.CreateItem(ctx, row); err != nil {
		return nil, db.MapError(err, "checklist item")
	}
	dto := newItemDTO(row)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	updates := map[string]any{
		"name":        name,
		"description": trimOptional(input.Description),
		"position":    input.Position,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	row, err := s.checklist.UpdateItem(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "checklist item")
	}
	dto := newItemDTO(row)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.checklist.DeleteItem(ctx, id), "checklist item")
}

func (s *service) Create(ctx context.Context, input CreateRevisionInput) (*RevisionDTO, error) {
	if input.ScheduledAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at is required")
	}
	row := &models.Revision{
		ID:                 uuid.New(),
		CustomerID:         input.CustomerID,
		VehicleDescription: trimOptional(input.VehicleDescription),
		Mileage:            input.Mileage,
		Status:             enums.RevisionStatusScheduled,
		ScheduledAt:        input.ScheduledAt.UTC(),
		TechnicianName:     trimOptional(input.TechnicianName),
		Notes:              trimOptional(input.Notes),
		TotalCost:          decimal.Zero,
	}

	if input.CustomerVehicleID != nil {
		if input.CustomerID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required with customer_vehicle_id")
		}
		vehicle, err := s.vehicles.FindCustomerVehicle(ctx, *input.CustomerID, *input.CustomerVehicleID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle does not belong to customer")
			}
			return nil, db.MapError(err, "vehicle")
		}
		row.CustomerVehicleID = &vehicle.ID
		row.Plate = vehicle.Plate
		if row.VehicleDescription == nil {
			description := describeVehicle(vehicle)
			row.VehicleDescription = &description
		}
	} else {
		plate, err := plates.Normalize(input.Plate)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plate").
				WithDetails(map[string]any{"plate": input.Plate})
		}
		row.Plate = plate
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		categories, err := repo.ListCategories(ctx, true)
		if err != nil {
			return db.MapError(err, "checklist")
		}
		row.Entries = snapshotEntries(row.ID, categories)
		if err := repo.CreateRevision(ctx, row); err != nil {
			return db.MapError(err, "revision")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"revision_id": row.ID.String(),
		"plate":       row.Plate,
		"entries":     len(row.Entries),
	})
	s.logg.Info(logCtx, "revision scheduled")
	return newRevisionDTO(row, true), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[RevisionDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	filter := ListFilter{CustomerID: input.CustomerID, Status: input.Status}
	if strings.TrimSpace(input.Plate) != "" {
		plate, err := plates.Normalize(input.Plate)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plate filter")
		}
		filter.Plate = plate
	}
	rows, err := s.repo.List(ctx, filter, cursor, input.Pagination.Limit)
	if err != nil {
		return nil, db.MapError(err, "revisions")
	}
	page := pagination.Build(rows, input.Pagination.Limit, func(r models.Revision) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})
	items := make([]RevisionDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *newRevisionDTO(&page.Items[i], false))
	}
	return &pagination.Page[RevisionDTO]{Items: items, NextCursor: page.NextCursor}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RevisionDTO, error) {
	row, err := s.repo.FindRevision(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "revision")
	}
	return newRevisionDTO(row, true), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*pagination.Page[RevisionDTO], error) {
	input.CustomerID = &customerID
	return s.List(ctx, input)
}

func (s *service) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*RevisionDTO, error) {
	row, err := s.repo.FindForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, db.MapError(err, "revision")
	}
	return newRevisionDTO(row, true), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRevisionInput) (*RevisionDTO, error) {
	updates := map[string]any{}
	if input.Mileage != nil {
		if *input.Mileage < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "mileage must not be negative")
		}
		updates["mileage"] = *input.Mileage
	}
	if input.ScheduledAt != nil {
		updates["scheduled_at"] = input.ScheduledAt.UTC()
	}
	if input.TechnicianName != nil {
		updates["technician_name"] = trimOptional(input.TechnicianName)
	}
	if input.Notes != nil {
		updates["notes"] = trimOptional(input.Notes)
	}
	if input.TotalCost != nil {
		if input.TotalCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_cost must not be negative")
		}
		updates["total_cost"] = input.TotalCost.Round(2)
	}
	if len(updates) > 0 {
		ok, err := s.repo.UpdateRevision(ctx, id, openStatuses, updates)
		if err != nil {
			return nil, db.MapError(err, "revision")
		}
		if !ok {
			return nil, s.closedOrMissing(ctx, id)
		}
	}
	return s.Get(ctx, id)
}

func (s *service) UpdateEntry(ctx context.Context, revisionID, entryID uuid.UUID, input UpdateEntryInput) (*EntryDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checklist status")
	}
	var out *models.RevisionChecklistEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		revision, err := repo.LockRevision(ctx, revisionID)
		if err != nil {
			return db.MapError(err, "revision")
		}
		if isClosed(revision.Status) {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "revision is %s", revision.Status)
		}
		out, err = repo.UpdateEntry(ctx, revisionID, entryID, map[string]any{
			"status": input.Status,
			"notes":  trimOptional(input.Notes),
		})
		if err != nil {
			return db.MapError(err, "checklist entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := newEntryDTO(out)
	return &dto, nil
}

func (s *service) Transition(ctx context.Context, actorID uuid.UUID, id uuid.UUID, to enums.RevisionStatus) (*RevisionDTO, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid revision status")
	}
	var out *models.Revision
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		revision, err := repo.LockRevision(ctx, id)
		if err != nil {
			return db.MapError(err, "revision")
		}
		from := revision.Status
		if !canTransition(from, to) {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "cannot move revision from %s to %s", from, to).
				WithDetails(map[string]any{"from": from, "to": to})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": to}
		switch to {
		case enums.RevisionStatusInProgress:
			updates["started_at"] = now
			revision.StartedAt = &now
		case enums.RevisionStatusCompleted:
			if pending := pendingItems(revision.Entries); len(pending) > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "checklist has pending items").
					WithDetails(map[string]any{"pending_items": pending})
			}
			updates["completed_at"] = now
			revision.CompletedAt = &now
		}

		ok, err := repo.UpdateRevision(ctx, id, []enums.RevisionStatus{from}, updates)
		if err != nil {
			return db.MapError(err, "revision")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "revision status changed concurrently")
		}
		revision.Status = to

		if to == enums.RevisionStatusCompleted {
			summary := Summarize(revision.Entries)
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventRevisionCompleted,
				AggregateType: enums.AggregateRevision,
				AggregateID:   revision.ID,
				Actor:         &outbox.ActorRef{ActorID: actorID, Role: string(enums.ActorRoleAdmin)},
				Data: payloads.RevisionCompletedEvent{
					RevisionID: revision.ID,
					CustomerID: revision.CustomerID,
					Plate:      revision.Plate,
					TotalCost:  revision.TotalCost,
					Attention:  summary.Attention,
					Replace:    summary.Replace,
				},
				OccurredAt: now,
			}); err != nil {
				return err
			}
		}
		out = revision
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newRevisionDTO(out, true), nil
}

func (s *service) closedOrMissing(ctx context.Context, id uuid.UUID) error {
	row, err := s.repo.FindRevision(ctx, id)
	if err != nil {
		return db.MapError(err, "revision")
	}
	return pkgerrors.Newf(pkgerrors.CodeConflict, "revision is %s", row.Status)
}

// snapshotEntries copies every active checklist item into pending entries.
func snapshotEntries(revisionID uuid.UUID, categories []models.ChecklistCategory) []models.RevisionChecklistEntry {
	var entries []models.RevisionChecklistEntry
	for _, category := range categories {
		for _, item := range category.Items {
			if !item.IsActive {
				continue
			}
			itemID := item.ID
			entries = append(entries, models.RevisionChecklistEntry{
				ID:              uuid.New(),
				RevisionID:      revisionID,
				ChecklistItemID: &itemID,
				CategoryName:    category.Name,
				ItemName:        item.Name,
				Position:        category.Position*categoryPositionStride + item.Position,
				Status:          enums.ChecklistEntryPending,
			})
		}
	}
	return entries
}

func pendingItems(entries []models.RevisionChecklistEntry) []string {
	var names []string
	for _, e := range entries {
		if e.Status == enums.ChecklistEntryPending {
			names = append(names, e.CategoryName+": "+e.ItemName)
		}
	}
	return names
}

func canTransition(from, to enums.RevisionStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func isClosed(status enums.RevisionStatus) bool {
	return status == enums.RevisionStatusCompleted || status == enums.RevisionStatusCancelled
}

func describeVehicle(v *models.CustomerVehicle) string {
	parts := []string{v.Make, v.Model}
	if v.Year != nil {
		parts = append(parts, fmt.Sprint(*v.Year))
	}
	return strings.Join(parts, " ")
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
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
