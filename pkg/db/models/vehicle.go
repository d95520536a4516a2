package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

type VehicleMake struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	LogoURL   *string   `gorm:"column:logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type VehicleModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MakeID    uuid.UUID `gorm:"column:make_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type VehicleVariant struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ModelID   uuid.UUID       `gorm:"column:model_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	YearFrom  int             `gorm:"column:year_from;not null"`
	YearTo    *int            `gorm:"column:year_to"`
	Engine    *string         `gorm:"column:engine"`
	Fuel      *enums.FuelType `gorm:"column:fuel;type:text"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomerVehicle is a car registered to a customer account by plate.
type CustomerVehicle struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null"`
	Plate      string     `gorm:"column:plate;not null"`
	Make       string     `gorm:"column:make;not null"`
	Model      string     `gorm:"column:model;not null"`
	Year       *int       `gorm:"column:year"`
	Color      *string    `gorm:"column:color"`
	VariantID  *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
