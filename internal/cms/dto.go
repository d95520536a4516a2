package cms

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/google/uuid"
)

type HeroDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subtitle  *string   `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url"`
	CTALabel  *string   `json:"cta_label,omitempty"`
	CTAURL    *string   `json:"cta_url,omitempty"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HeroInput struct {
	Title    string  `json:"title" validate:"required,max=160"`
	Subtitle *string `json:"subtitle,omitempty" validate:"omitempty,max=300"`
	ImageURL string  `json:"image_url" validate:"required,url"`
	CTALabel *string `json:"cta_label,omitempty" validate:"omitempty,max=60"`
	CTAURL   *string `json:"cta_url,omitempty" validate:"omitempty,max=500"`
	Position int     `json:"position" validate:"gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateHeroInput struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=160"`
	Subtitle *string `json:"subtitle,omitempty" validate:"omitempty,max=300"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	CTALabel *string `json:"cta_label,omitempty" validate:"omitempty,max=60"`
	CTAURL   *string `json:"cta_url,omitempty" validate:"omitempty,max=500"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type MarqueeDTO struct {
	ID       uuid.UUID `json:"id"`
	Message  string    `json:"message"`
	LinkURL  *string   `json:"link_url,omitempty"`
	Position int       `json:"position"`
	IsActive bool      `json:"is_active"`
}

type MarqueeInput struct {
	Message  string  `json:"message" validate:"required,max=240"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=500"`
	Position int     `json:"position" validate:"gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateMarqueeInput struct {
	Message  *string `json:"message,omitempty" validate:"omitempty,max=240"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=500"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// FooterDTO doubles as the upsert body.
type FooterDTO struct {
	About         *string    `json:"about,omitempty" validate:"omitempty,max=2000"`
	Phone         *string    `json:"phone,omitempty" validate:"omitempty,max=40"`
	WhatsApp      *string    `json:"whatsapp,omitempty" validate:"omitempty,max=40"`
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string    `json:"address,omitempty" validate:"omitempty,max=300"`
	BusinessHours *string    `json:"business_hours,omitempty" validate:"omitempty,max=300"`
	InstagramURL  *string    `json:"instagram_url,omitempty" validate:"omitempty,url"`
	FacebookURL   *string    `json:"facebook_url,omitempty" validate:"omitempty,url"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" validate:"-"`
}

// HomeDTO bundles the active storefront content.
type HomeDTO struct {
	Heroes  []HeroDTO    `json:"heroes"`
	Marquee []MarqueeDTO `json:"marquee"`
	Footer  FooterDTO    `json:"footer"`
}

func newHeroDTO(m *models.CmsHero) HeroDTO {
	return HeroDTO{
		ID:        m.ID,
		Title:     m.Title,
		Subtitle:  m.Subtitle,
		ImageURL:  m.ImageURL,
		CTALabel:  m.CTALabel,
		CTAURL:    m.CTAURL,
		Position:  m.Position,
		IsActive:  m.IsActive,
		UpdatedAt: m.UpdatedAt,
	}
}

func newMarqueeDTO(m *models.MarqueeMessage) MarqueeDTO {
	return MarqueeDTO{
		ID:       m.ID,
		Message:  m.Message,
		LinkURL:  m.LinkURL,
		Position: m.Position,
		IsActive: m.IsActive,
	}
}

func newFooterDTO(m *models.CmsFooter) FooterDTO {
	updated := m.UpdatedAt
	return FooterDTO{
		About:         m.About,
		Phone:         m.Phone,
		WhatsApp:      m.WhatsApp,
		Email:         m.Email,
		Address:       m.Address,
		BusinessHours: m.BusinessHours,
		InstagramURL:  m.InstagramURL,
		FacebookURL:   m.FacebookURL,
		UpdatedAt:     &updated,
	}
}
