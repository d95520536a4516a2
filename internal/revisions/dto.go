package revisions

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
	IsActive bool      `json:"is_active"`
	Items    []ItemDTO `json:"items"`
}

type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Position    int       `json:"position"`
	IsActive    bool      `json:"is_active"`
}

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Position int    `json:"position" validate:"gte=0"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type ItemInput struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Position    int     `json:"position" validate:"gte=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateRevisionInput schedules a revision. When CustomerVehicleID is set the
// plate and description come from the customer's garage.
type CreateRevisionInput struct {
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	CustomerVehicleID  *uuid.UUID `json:"customer_vehicle_id,omitempty"`
	Plate              string     `json:"plate" validate:"omitempty,max=10"`
	VehicleDescription *string    `json:"vehicle_description,omitempty" validate:"omitempty,max=200"`
	Mileage            *int       `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	ScheduledAt        time.Time  `json:"scheduled_at" validate:"required"`
	TechnicianName     *string    `json:"technician_name,omitempty" validate:"omitempty,max=120"`
	Notes              *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateRevisionInput struct {
	Mileage        *int             `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	ScheduledAt    *time.Time       `json:"scheduled_at,omitempty"`
	TechnicianName *string          `json:"technician_name,omitempty" validate:"omitempty,max=120"`
	Notes          *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
	TotalCost      *decimal.Decimal `json:"total_cost,omitempty"`
}

type UpdateEntryInput struct {
	Status enums.ChecklistEntryStatus `json:"status" validate:"required,oneof=pending ok attention replace not_applicable"`
	Notes  *string                    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type TransitionInput struct {
	Status enums.RevisionStatus `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
}

type ListInput struct {
	CustomerID *uuid.UUID
	Status     *enums.RevisionStatus
	Plate      string
	Pagination pagination.Params
}

type EntryDTO struct {
	ID              uuid.UUID                  `json:"id"`
	ChecklistItemID *uuid.UUID                 `json:"checklist_item_id,omitempty"`
	CategoryName    string                     `json:"category_name"`
	ItemName        string                     `json:"item_name"`
	Position        int                        `json:"position"`
	Status          enums.ChecklistEntryStatus `json:"status"`
	Notes           *string                    `json:"notes,omitempty"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// Summary counts checklist entries per status.
type Summary struct {
	Total         int `json:"total"`
	Pending       int `json:"pending"`
	OK            int `json:"ok"`
	Attention     int `json:"attention"`
	Replace       int `json:"replace"`
	NotApplicable int `json:"not_applicable"`
	Progress      int `json:"progress"`
}

type RevisionDTO struct {
	ID                 uuid.UUID            `json:"id"`
	CustomerID         *uuid.UUID           `json:"customer_id,omitempty"`
	CustomerVehicleID  *uuid.UUID           `json:"customer_vehicle_id,omitempty"`
	Plate              string               `json:"plate"`
	VehicleDescription *string              `json:"vehicle_description,omitempty"`
	Mileage            *int                 `json:"mileage,omitempty"`
	Status             enums.RevisionStatus `json:"status"`
	ScheduledAt        time.Time            `json:"scheduled_at"`
	StartedAt          *time.Time           `json:"started_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	TechnicianName     *string              `json:"technician_name,omitempty"`
	Notes              *string              `json:"notes,omitempty"`
	TotalCost          decimal.Decimal      `json:"total_cost"`
	Entries            []EntryDTO           `json:"entries,omitempty"`
	Summary            *Summary             `json:"summary,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func newCategoryDTO(m *models.ChecklistCategory) CategoryDTO {
	dto := CategoryDTO{ID: m.ID, Name: m.Name, Position: m.Position, IsActive: m.IsActive, Items: []ItemDTO{}}
	for i := range m.Items {
		dto.Items = append(dto.Items, newItemDTO(&m.Items[i]))
	}
	return dto
}

func newItemDTO(m *models.ChecklistItem) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Position:    m.Position,
		IsActive:    m.IsActive,
	}
}

func newEntryDTO(m *models.RevisionChecklistEntry) EntryDTO {
	return EntryDTO{
		ID:              m.ID,
		ChecklistItemID: m.ChecklistItemID,
		CategoryName:    m.CategoryName,
		ItemName:        m.ItemName,
		Position:        m.Position,
		Status:          m.Status,
		Notes:           m.Notes,
		UpdatedAt:       m.UpdatedAt,
	}
}

// newRevisionDTO includes entries and the summary when withEntries is set.
func newRevisionDTO(m *models.Revision, withEntries bool) *RevisionDTO {
	dto := &RevisionDTO{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		CustomerVehicleID:  m.CustomerVehicleID,
		Plate:              m.Plate,
		VehicleDescription: m.VehicleDescription,
		Mileage:            m.Mileage,
		Status:             m.Status,
		ScheduledAt:        m.ScheduledAt,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		TechnicianName:     m.TechnicianName,
		Notes:              m.Notes,
		TotalCost:          m.TotalCost,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if withEntries {
		dto.Entries = make([]EntryDTO, 0, len(m.Entries))
		for i := range m.Entries {
			dto.Entries = append(dto.Entries, newEntryDTO(&m.Entries[i]))
		}
		summary := Summarize(m.Entries)
		dto.Summary = &summary
	}
	return dto
}

// Summarize counts entries per status. Progress is the percentage of entries
// that are no longer pending.
func Summarize(entries []models.RevisionChecklistEntry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case enums.ChecklistEntryPending:
			s.Pending++
		case enums.ChecklistEntryOK:
			s.OK++
		case enums.ChecklistEntryAttention:
			s.Attention++
		case enums.ChecklistEntryReplace:
			s.Replace++
		case enums.ChecklistEntryNotApplicable:
			s.NotApplicable++
		}
	}
	if s.Total > 0 {
		s.Progress = (s.Total - s.Pending) * 100 / s.Total
	}
	return s
}
