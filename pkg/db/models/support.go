package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

type SupportTicket struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	Subject    string               `gorm:"column:subject;not null"`
	Category   enums.TicketCategory `gorm:"column:category;type:text;not null"`
	Status     enums.TicketStatus   `gorm:"column:status;type:text;not null;default:open"`
	Priority   enums.TicketPriority `gorm:"column:priority;type:text;not null;default:normal"`
	OrderID    *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	ClosedAt   *time.Time           `gorm:"column:closed_at"`
	Messages   []SupportMessage     `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

type SupportMessage struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID      uuid.UUID               `gorm:"column:ticket_id;type:uuid;not null"`
	AuthorType    enums.MessageAuthorType `gorm:"column:author_type;type:text;not null"`
	AuthorID      uuid.UUID               `gorm:"column:author_id;type:uuid;not null"`
	Body          string                  `gorm:"column:body;not null"`
	AttachmentURL *string                 `gorm:"column:attachment_url"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
}

type FAQEntry struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Question    string    `gorm:"column:question;not null"`
	Answer      string    `gorm:"column:answer;not null"`
	Category    string    `gorm:"column:category;not null;default:general"`
	Position    int       `gorm:"column:position;not null;default:0"`
	IsPublished bool      `gorm:"column:is_published;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FAQEntry) TableName() string { return "faq_entries" }
