package support

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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type ticketStore interface {
	CreateTicket(ctx context.Context, ticket *models.SupportTicket) error
	FindTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	FindTicketForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.SupportTicket, error)
	LockTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListTickets(ctx context.Context, filter TicketFilter, cursor *pagination.Cursor, limit int) ([]models.SupportTicket, error)
	UpdateTicket(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateMessage(ctx context.Context, msg *models.SupportMessage) error
}

type orderLookup interface {
	FindForCustomer(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error)
}

// Service covers the customer and staff sides of support tickets.
type Service interface {
	CreateTicket(ctx context.Context, customerID uuid.UUID, input CreateTicketInput) (*TicketDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListTicketsInput) (*pagination.Page[TicketDTO], error)
	GetForCustomer(ctx context.Context, customerID, ticketID uuid.UUID) (*TicketDTO, error)
	CustomerReply(ctx context.Context, customerID, ticketID uuid.UUID, input ReplyInput) (*MessageDTO, error)

	List(ctx context.Context, input ListTicketsInput) (*pagination.Page[TicketDTO], error)
	Get(ctx context.Context, ticketID uuid.UUID) (*TicketDTO, error)
	AdminReply(ctx context.Context, adminID, ticketID uuid.UUID, input ReplyInput) (*MessageDTO, error)
	UpdateTicket(ctx context.Context, ticketID uuid.UUID, input UpdateTicketInput) (*TicketDTO, error)
}

// ServiceParams wires the support service.
type ServiceParams struct {
	DB     txRunner
	Repo   *Repository
	Orders orderLookup
	Outbox outboxPublisher
	Logger *logger.Logger
}

type service struct {
	tx     txRunner
	repo   ticketStore
	txRepo func(tx *gorm.DB) ticketStore
	orders orderLookup
	outbox outboxPublisher
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Repo == nil:
		return nil, fmt.Errorf("support repository required")
	case params.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	repo := params.Repo
	return &service{
		tx:     params.DB,
		repo:   repo,
		txRepo: func(tx *gorm.DB) ticketStore { return repo.WithTx(tx) },
		orders: params.Orders,
		outbox: params.Outbox,
		logg:   params.Logger,
		now:    time.Now,
	}, nil
}

func (s *service) CreateTicket(ctx context.Context, customerID uuid.UUID, input CreateTicketInput) (*TicketDTO, error) {
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Message)
	if subject == "" || body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject and message are required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket category")
	}
	if input.OrderID != nil {
		if _, err := s.orders.FindForCustomer(ctx, *input.OrderID, customerID); err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "order not found")
			}
			return nil, db.MapError(err, "order")
		}
	}

	ticketID := uuid.New()
	ticket := &models.SupportTicket{
		ID:         ticketID,
		CustomerID: customerID,
		Subject:    subject,
		Category:   input.Category,
		Status:     enums.TicketStatusOpen,
		Priority:   enums.TicketPriorityNormal,
		OrderID:    input.OrderID,
		Messages: []models.SupportMessage{{
			ID:            uuid.New(),
			TicketID:      ticketID,
			AuthorType:    enums.MessageAuthorCustomer,
			AuthorID:      customerID,
			Body:          body,
			AttachmentURL: trimOptional(input.AttachmentURL),
		}},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.txRepo(tx).CreateTicket(ctx, ticket); err != nil {
			return db.MapError(err, "ticket")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSupportTicketCreated,
			AggregateType: enums.AggregateSupportTicket,
			AggregateID:   ticket.ID,
			Actor:         &outbox.ActorRef{ActorID: customerID, Role: string(enums.ActorRoleCustomer)},
			Data: payloads.SupportTicketCreatedEvent{
				TicketID:   ticket.ID,
				CustomerID: customerID,
				Subject:    subject,
				Category:   ticket.Category,
				Priority:   ticket.Priority,
			},
			OccurredAt: s.now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return newTicketDTO(ticket), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListTicketsInput) (*pagination.Page[TicketDTO], error) {
	return s.list(ctx, TicketFilter{CustomerID: &customerID, Status: input.Status}, input.Pagination)
}

func (s *service) GetForCustomer(ctx context.Context, customerID, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.repo.FindTicketForCustomer(ctx, customerID, ticketID)
	if err != nil {
		return nil, db.MapError(err, "ticket")
	}
	return newTicketDTO(ticket), nil
}

// CustomerReply reopens tickets waiting on the customer or already resolved.
func (s *service) CustomerReply(ctx context.Context, customerID, ticketID uuid.UUID, input ReplyInput) (*MessageDTO, error) {
	return s.reply(ctx, ticketID, input, enums.MessageAuthorCustomer, customerID, func(t *models.SupportTicket) (enums.TicketStatus, error) {
		if t.CustomerID != customerID {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		switch t.Status {
		case enums.TicketStatusWaitingCustomer, enums.TicketStatusResolved:
			return enums.TicketStatusOpen, nil
		}
		return t.Status, nil
	})
}

func (s *service) List(ctx context.Context, input ListTicketsInput) (*pagination.Page[TicketDTO], error) {
	return s.list(ctx, TicketFilter{Status: input.Status}, input.Pagination)
}

func (s *service) Get(ctx context.Context, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.repo.FindTicket(ctx, ticketID)
	if err != nil {
		return nil, db.MapError(err, "ticket")
	}
	return newTicketDTO(ticket), nil
}

// AdminReply hands open tickets back to the customer.
func (s *service) AdminReply(ctx context.Context, adminID, ticketID uuid.UUID, input ReplyInput) (*MessageDTO, error) {
	return s.reply(ctx, ticketID, input, enums.MessageAuthorAdmin, adminID, func(t *models.SupportTicket) (enums.TicketStatus, error) {
		switch t.Status {
		case enums.TicketStatusOpen, enums.TicketStatusInProgress:
			return enums.TicketStatusWaitingCustomer, nil
		}
		return t.Status, nil
	})
}

func (s *service) UpdateTicket(ctx context.Context, ticketID uuid.UUID, input UpdateTicketInput) (*TicketDTO, error) {
	updates := map[string]any{}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		updates["priority"] = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		updates["status"] = *input.Status
		if *input.Status == enums.TicketStatusClosed {
			updates["closed_at"] = s.now().UTC()
		} else {
			updates["closed_at"] = nil
		}
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateTicket(ctx, ticketID, updates); err != nil {
			return nil, db.MapError(err, "ticket")
		}
	}
	return s.Get(ctx, ticketID)
}

// reply appends a message and applies the status chosen by next. Closed
// tickets accept no replies.
func (s *service) reply(ctx context.Context, ticketID uuid.UUID, input ReplyInput, author enums.MessageAuthorType, authorID uuid.UUID, next func(*models.SupportTicket) (enums.TicketStatus, error)) (*MessageDTO, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	msg := &models.SupportMessage{
		ID:            uuid.New(),
		TicketID:      ticketID,
		AuthorType:    author,
		AuthorID:      authorID,
		Body:          body,
		AttachmentURL: trimOptional(input.AttachmentURL),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		ticket, err := repo.LockTicket(ctx, ticketID)
		if err != nil {
			return db.MapError(err, "ticket")
		}
		status, err := next(ticket)
		if err != nil {
			return err
		}
		if ticket.Status == enums.TicketStatusClosed {
			return pkgerrors.New(pkgerrors.CodeConflict, "ticket is closed")
		}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			return db.MapError(err, "message")
		}
		updates := map[string]any{"updated_at": s.now().UTC()}
		if status != ticket.Status {
			updates["status"] = status
		}
		return db.MapError(repo.UpdateTicket(ctx, ticketID, updates), "ticket")
	})
	if err != nil {
		return nil, err
	}
	dto := newMessageDTO(msg)
	return &dto, nil
}

func (s *service) list(ctx context.Context, filter TicketFilter, params pagination.Params) (*pagination.Page[TicketDTO], error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListTickets(ctx, filter, cursor, params.Limit)
	if err != nil {
		return nil, db.MapError(err, "tickets")
	}
	page := pagination.Build(rows, params.Limit, func(t models.SupportTicket) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	})
	items := make([]TicketDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *newTicketDTO(&page.Items[i]))
	}
	return &pagination.Page[TicketDTO]{Items: items, NextCursor: page.NextCursor}, nil
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
