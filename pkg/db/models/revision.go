package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

type ChecklistCategory struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	Items     []ChecklistItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

type ChecklistItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Position    int       `gorm:"column:position;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Revision is a maintenance/inspection visit for one vehicle.
type Revision struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID         *uuid.UUID               `gorm:"column:customer_id;type:uuid"`
	CustomerVehicleID  *uuid.UUID               `gorm:"column:customer_vehicle_id;type:uuid"`
	Plate              string                   `gorm:"column:plate;not null"`
	VehicleDescription *string                  `gorm:"column:vehicle_description"`
	Mileage            *int                     `gorm:"column:mileage"`
	Status             enums.RevisionStatus     `gorm:"column:status;type:text;not null;default:scheduled"`
	ScheduledAt        time.Time                `gorm:"column:scheduled_at;not null"`
	StartedAt          *time.Time               `gorm:"column:started_at"`
	CompletedAt        *time.Time               `gorm:"column:completed_at"`
	TechnicianName     *string                  `gorm:"column:technician_name"`
	Notes              *string                  `gorm:"column:notes"`
	TotalCost          decimal.Decimal          `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	Entries            []RevisionChecklistEntry `gorm:"foreignKey:RevisionID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// RevisionChecklistEntry copies category and item names so later template
// edits do not rewrite past revisions.
type RevisionChecklistEntry struct {
	ID              uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RevisionID      uuid.UUID                  `gorm:"column:revision_id;type:uuid;not null"`
	ChecklistItemID *uuid.UUID                 `gorm:"column:checklist_item_id;type:uuid"`
	CategoryName    string                     `gorm:"column:category_name;not null"`
	ItemName        string                     `gorm:"column:item_name;not null"`
	Position        int                        `gorm:"column:position;not null;default:0"`
	Status          enums.ChecklistEntryStatus `gorm:"column:status;type:text;not null;default:pending"`
	Notes           *string                    `gorm:"column:notes"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
