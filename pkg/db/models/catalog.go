package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item with tracked stock.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU            string           `gorm:"column:sku;not null;uniqueIndex"`
	Name           string           `gorm:"column:name;not null"`
	Slug           string           `gorm:"column:slug;not null"`
	Description    *string          `gorm:"column:description"`
	Brand          *string          `gorm:"column:brand"`
	Category       string           `gorm:"column:category;not null"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Stock          int              `gorm:"column:stock;not null;default:0"`
	Images         pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive       bool             `gorm:"column:is_active;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// WorkshopService is a bookable workshop job such as an oil change or alignment.
type WorkshopService struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string          `gorm:"column:code;not null;uniqueIndex"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Category        string          `gorm:"column:category;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null;default:60"`
	ImageURL        *string         `gorm:"column:image_url"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkshopService) TableName() string { return "services" }

// ShippingMethod is a delivery option offered at checkout.
type ShippingMethod struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string           `gorm:"column:name;not null"`
	Description      *string          `gorm:"column:description"`
	Carrier          *string          `gorm:"column:carrier"`
	Price            decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	FreeOver         *decimal.Decimal `gorm:"column:free_over;type:numeric(12,2)"`
	EstimatedDaysMin int              `gorm:"column:estimated_days_min;not null;default:0"`
	EstimatedDaysMax int              `gorm:"column:estimated_days_max;not null;default:0"`
	IsPickup         bool             `gorm:"column:is_pickup;not null;default:false"`
	IsActive         bool             `gorm:"column:is_active;not null"`
	Position         int              `gorm:"column:position;not null;default:0"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
