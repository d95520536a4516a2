package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service manages hero slides, the marquee and the footer.
type Service interface {
	Home(ctx context.Context) (*HomeDTO, error)

	ListHeroes(ctx context.Context, includeInactive bool) ([]HeroDTO, error)
	CreateHero(ctx context.Context, input HeroInput) (*HeroDTO, error)
	UpdateHero(ctx context.Context, id uuid.UUID, input UpdateHeroInput) (*HeroDTO, error)
	DeleteHero(ctx context.Context, id uuid.UUID) error

	ListMarquee(ctx context.Context, includeInactive bool) ([]MarqueeDTO, error)
	CreateMarquee(ctx context.Context, input MarqueeInput) (*MarqueeDTO, error)
	UpdateMarquee(ctx context.Context, id uuid.UUID, input UpdateMarqueeInput) (*MarqueeDTO, error)
	DeleteMarquee(ctx context.Context, id uuid.UUID) error

	Footer(ctx context.Context) (*FooterDTO, error)
	UpsertFooter(ctx context.Context, input FooterDTO) (*FooterDTO, error)
}

type contentStore interface {
	ListHeroes(ctx context.Context, activeOnly bool) ([]models.CmsHero, error)
	CreateHero(ctx context.Context, row *models.CmsHero) error
	UpdateHero(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.CmsHero, error)
	DeleteHero(ctx context.Context, id uuid.UUID) error
	ListMarquee(ctx context.Context, activeOnly bool) ([]models.MarqueeMessage, error)
	CreateMarquee(ctx context.Context, row *models.MarqueeMessage) error
	UpdateMarquee(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.MarqueeMessage, error)
	DeleteMarquee(ctx context.Context, id uuid.UUID) error
	Footer(ctx context.Context) (*models.CmsFooter, error)
	UpsertFooter(ctx context.Context, row *models.CmsFooter) error
}

type service struct {
	repo contentStore
}

func NewService(repo contentStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cms repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Home(ctx context.Context) (*HomeDTO, error) {
	heroes, err := s.ListHeroes(ctx, false)
	if err != nil {
		return nil, err
	}
	marquee, err := s.ListMarquee(ctx, false)
	if err != nil {
		return nil, err
	}
	footer, err := s.Footer(ctx)
	if err != nil {
		return nil, err
	}
	return &HomeDTO{Heroes: heroes, Marquee: marquee, Footer: *footer}, nil
}

func (s *service) ListHeroes(ctx context.Context, includeInactive bool) ([]HeroDTO, error) {
	rows, err := s.repo.ListHeroes(ctx, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "hero slides")
	}
	out := make([]HeroDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newHeroDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateHero(ctx context.Context, input HeroInput) (*HeroDTO, error) {
	title, image := strings.TrimSpace(input.Title), strings.TrimSpace(input.ImageURL)
	if title == "" || image == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and image_url are required")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must be non-negative")
	}
	row := &models.CmsHero{
		ID:       uuid.New(),
		Title:    title,
		Subtitle: trimOptional(input.Subtitle),
		ImageURL: image,
		CTALabel: trimOptional(input.CTALabel),
		CTAURL:   trimOptional(input.CTAURL),
		Position: input.Position,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.CreateHero(ctx, row); err != nil {
		return nil, db.MapError(err, "hero slide")
	}
	dto := newHeroDTO(row)
	return &dto, nil
}

func (s *service) UpdateHero(ctx context.Context, id uuid.UUID, input UpdateHeroInput) (*HeroDTO, error) {
	updates, err := requiredText(map[string]*string{"title": input.Title, "image_url": input.ImageURL})
	if err != nil {
		return nil, err
	}
	optionalText(updates, map[string]*string{"subtitle": input.Subtitle, "cta_label": input.CTALabel, "cta_url": input.CTAURL})
	if err := positionAndActive(updates, input.Position, input.IsActive); err != nil {
		return nil, err
	}
	row, err := s.repo.UpdateHero(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "hero slide")
	}
	dto := newHeroDTO(row)
	return &dto, nil
}

func (s *service) DeleteHero(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteHero(ctx, id), "hero slide")
}

func (s *service) ListMarquee(ctx context.Context, includeInactive bool) ([]MarqueeDTO, error) {
	rows, err := s.repo.ListMarquee(ctx, !includeInactive)
	if err != nil {
		return nil, db.MapError(err, "marquee messages")
	}
	out := make([]MarqueeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newMarqueeDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateMarquee(ctx context.Context, input MarqueeInput) (*MarqueeDTO, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must be non-negative")
	}
	row := &models.MarqueeMessage{
		ID:       uuid.New(),
		Message:  message,
		LinkURL:  trimOptional(input.LinkURL),
		Position: input.Position,
		IsActive: input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.CreateMarquee(ctx, row); err != nil {
		return nil, db.MapError(err, "marquee message")
	}
	dto := newMarqueeDTO(row)
	return &dto, nil
}

func (s *service) UpdateMarquee(ctx context.Context, id uuid.UUID, input UpdateMarqueeInput) (*MarqueeDTO, error) {
	updates, err := requiredText(map[string]*string{"message": input.Message})
	if err != nil {
		return nil, err
	}
	optionalText(updates, map[string]*string{"link_url": input.LinkURL})
	if err := positionAndActive(updates, input.Position, input.IsActive); err != nil {
		return nil, err
	}
	row, err := s.repo.UpdateMarquee(ctx, id, updates)
	if err != nil {
		return nil, db.MapError(err, "marquee message")
	}
	dto := newMarqueeDTO(row)
	return &dto, nil
}

func (s *service) DeleteMarquee(ctx context.Context, id uuid.UUID) error {
	return db.MapError(s.repo.DeleteMarquee(ctx, id), "marquee message")
}

// Footer returns an empty footer before one has been saved.
func (s *service) Footer(ctx context.Context) (*FooterDTO, error) {
	row, err := s.repo.Footer(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return &FooterDTO{}, nil
		}
		return nil, db.MapError(err, "footer")
	}
	dto := newFooterDTO(row)
	return &dto, nil
}

func (s *service) UpsertFooter(ctx context.Context, input FooterDTO) (*FooterDTO, error) {
	row := &models.CmsFooter{
		About:         trimOptional(input.About),
		Phone:         trimOptional(input.Phone),
		WhatsApp:      trimOptional(input.WhatsApp),
		Email:         trimOptional(input.Email),
		Address:       trimOptional(input.Address),
		BusinessHours: trimOptional(input.BusinessHours),
		InstagramURL:  trimOptional(input.InstagramURL),
		FacebookURL:   trimOptional(input.FacebookURL),
	}
	if err := s.repo.UpsertFooter(ctx, row); err != nil {
		return nil, db.MapError(err, "footer")
	}
	return s.Footer(ctx)
}

func requiredText(fields map[string]*string) (map[string]any, error) {
	updates := map[string]any{}
	for column, value := range fields {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s cannot be empty", column)
		}
		updates[column] = trimmed
	}
	return updates, nil
}

// optionalText clears a column when the caller sends an empty string.
func optionalText(updates map[string]any, fields map[string]*string) {
	for column, value := range fields {
		if value == nil {
			continue
		}
		if trimmed := trimOptional(value); trimmed != nil {
			updates[column] = *trimmed
		} else {
			updates[column] = nil
		}
	}
}

func positionAndActive(updates map[string]any, position *int, active *bool) error {
	if position != nil {
		if *position < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "position must be non-negative")
		}
		updates["position"] = *position
	}
	if active != nil {
		updates["is_active"] = *active
	}
	return nil
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
