package support

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
)

const defaultFAQCategory = "general"

// FAQService manages the public FAQ.
type FAQService interface {
	List(ctx context.Context, category string, includeUnpublished bool) ([]FAQDTO, error)
	Create(ctx context.Context, input CreateFAQInput) (*FAQDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateFAQInput) (*FAQDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type faqStore interface {
	ListFAQ(ctx context.Context, category string, publishedOnly bool) ([]models.FAQEntry, error)
	CreateFAQ(ctx context.Context, row *models.FAQEntry) error
	UpdateFAQ(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.FAQEntry, error)
	DeleteFAQ(ctx context.Context, id uuid.UUID) error
}

type faqService struct {
	repo faqStore
}

func NewFAQService(repo faqStore) (FAQService, error) {
	if repo == nil {
		return nil, fmt.Errorf("faq repository required")
	}
	return &faqService{repo: repo}, nil
}

func (s *faqService) List(ctx context.Context, category string, includeUnpublished bool) ([]FAQDTO, error) {
	rows, err := s.repo.ListFAQ(ctx, strings.TrimSpace(category), !includeUnpublished)
	if err != nil {
		return nil, db.MapError(err, "faq")
	}
	out := make([]FAQDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newFAQDTO(&rows[i]))
	}
	return out, nil
}

func (s *faqService) Create(ctx context.Context, input CreateFAQInput) (*FAQDTO, error) {
	question, answer := strings.TrimSpace(input.Question), strings.TrimSpace(input.Answer)
	if question == "" || answer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question and answer are required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultFAQCategory
	}
	row := &models.FAQEntry{
		Question:    question,
		Answer:      answer,
		Category:    category,
		Position:    input.Position,
		IsPublished: input.IsPublished == nil || *input.IsPublished,
	}
	if err := s.repo.CreateFAQ(ctx, row); err != nil {
		return nil, db.MapError(err, "faq entry")
	}
	dto := newFAQDTO(row)
	return &dto, nil
}

func (s *faqService) Update(ctx context.Context, id uuid.UUID, input UpdateFAQInput) (*FAQDTO, error) {
	updates := map[string]any{}
	for column, value := range map[string]*string{"question": input.Question, "answer": input.Answer, "category": input.Category} {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be empty", column)
		}
		updates[column] = trimmed
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}
	row, err := s.repo.UpdateFAQ(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "faq entry")
	}
	dto := newFAQDTO(row)
	return &dto, nil
}

func (s *faqService) Delete(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteFAQ(ctx, id), "faq entry")
}
