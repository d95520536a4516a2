package models

import (
	"time"

	"github.com/google/uuid"
)

// CmsHero is one storefront banner slide.
type CmsHero struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	Subtitle  *string   `gorm:"column:subtitle"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	CTALabel  *string   `gorm:"column:cta_label"`
	CTAURL    *string   `gorm:"column:cta_url"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CmsHero) TableName() string { return "cms_heroes" }

// CmsFooter is stored as a single row with ID 1.
type CmsFooter struct {
	ID            int       `gorm:"column:id;primaryKey"`
	About         *string   `gorm:"column:about"`
	Phone         *string   `gorm:"column:phone"`
	WhatsApp      *string   `gorm:"column:whatsapp"`
	Email         *string   `gorm:"column:email"`
	Address       *string   `gorm:"column:address"`
	BusinessHours *string   `gorm:"column:business_hours"`
	InstagramURL  *string   `gorm:"column:instagram_url"`
	FacebookURL   *string   `gorm:"column:facebook_url"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CmsFooter) TableName() string { return "cms_footer" }

type MarqueeMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Message   string    `gorm:"column:message;not null"`
	LinkURL   *string   `gorm:"column:link_url"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
