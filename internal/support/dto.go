package support

import (
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/pagination"
	"github.com/google/uuid"
)

type CreateTicketInput struct {
	Subject       string               `json:"subject" validate:"required,max=160"`
	Category      enums.TicketCategory `json:"category" validate:"required,oneof=order revision account loyalty other"`
	OrderID       *uuid.UUID           `json:"order_id,omitempty"`
	Message       string               `json:"message" validate:"required,max=5000"`
	AttachmentURL *string              `json:"attachment_url,omitempty" validate:"omitempty,url"`
}

type ReplyInput struct {
	Body          string  `json:"body" validate:"required,max=5000"`
	AttachmentURL *string `json:"attachment_url,omitempty" validate:"omitempty,url"`
}

type UpdateTicketInput struct {
	Status   *enums.TicketStatus   `json:"status,omitempty" validate:"omitempty,oneof=open in_progress waiting_customer resolved closed"`
	Priority *enums.TicketPriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
}

type ListTicketsInput struct {
	Status     *enums.TicketStatus
	Pagination pagination.Params
}

type MessageDTO struct {
	ID            uuid.UUID               `json:"id"`
	AuthorType    enums.MessageAuthorType `json:"author_type"`
	AuthorID      uuid.UUID               `json:"author_id"`
	Body          string                  `json:"body"`
	AttachmentURL *string                 `json:"attachment_url,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

type TicketDTO struct {
	ID         uuid.UUID            `json:"id"`
	CustomerID uuid.UUID            `json:"customer_id"`
	Subject    string               `json:"subject"`
	Category   enums.TicketCategory `json:"category"`
	Status     enums.TicketStatus   `json:"status"`
	Priority   enums.TicketPriority `json:"priority"`
	OrderID    *uuid.UUID           `json:"order_id,omitempty"`
	ClosedAt   *time.Time           `json:"closed_at,omitempty"`
	Messages   []MessageDTO         `json:"messages,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

type FAQDTO struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category"`
	Position    int       `json:"position"`
	IsPublished bool      `json:"is_published"`
}

type CreateFAQInput struct {
	Question    string `json:"question" validate:"required,max=300"`
	Answer      string `json:"answer" validate:"required,max=5000"`
	Category    string `json:"category" validate:"omitempty,max=80"`
	Position    int    `json:"position" validate:"gte=0"`
	IsPublished *bool  `json:"is_published,omitempty"`
}

type UpdateFAQInput struct {
	Question    *string `json:"question,omitempty" validate:"omitempty,max=300"`
	Answer      *string `json:"answer,omitempty" validate:"omitempty,max=5000"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=80"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func newMessageDTO(m *models.SupportMessage) MessageDTO {
	return MessageDTO{
		ID:            m.ID,
		AuthorType:    m.AuthorType,
		AuthorID:      m.AuthorID,
		Body:          m.Body,
		AttachmentURL: m.AttachmentURL,
		CreatedAt:     m.CreatedAt,
	}
}

func newTicketDTO(m *models.SupportTicket) *TicketDTO {
	dto := &TicketDTO{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Subject:    m.Subject,
		Category:   m.Category,
		Status:     m.Status,
		Priority:   m.Priority,
		OrderID:    m.OrderID,
		ClosedAt:   m.ClosedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for i := range m.Messages {
		dto.Messages = append(dto.Messages, newMessageDTO(&m.Messages[i]))
	}
	return dto
}

func newFAQDTO(m *models.FAQEntry) FAQDTO {
	return FAQDTO{
		ID:          m.ID,
		Question:    m.Question,
		Answer:      m.Answer,
		Category:    m.Category,
		Position:    m.Position,
		IsPublished: m.IsPublished,
	}
}
