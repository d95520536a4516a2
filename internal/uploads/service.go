package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/angelmondragon/autocenter-backend/pkg/db"
	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/storage"
	"github.com/google/uuid"
)

type uploadStore interface {
	Create(ctx context.Context, row *models.Upload) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Owner identifies who sent a file.
type Owner struct {
	ID   uuid.UUID
	Role enums.ActorRole
}

// Input carries one multipart file. Size is the client-declared length and
// is checked again while streaming.
type Input struct {
	Kind     enums.UploadKind
	FileName string
	Size     int64
	Body     io.Reader
}

type UploadDTO struct {
	ID          uuid.UUID        `json:"id"`
	Kind        enums.UploadKind `json:"kind"`
	FileName    string           `json:"file_name"`
	ContentType string           `json:"content_type"`
	SizeBytes   int64            `json:"size_bytes"`
	URL         string           `json:"url"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Service stores sniffed, size-limited files and tracks them as rows.
type Service interface {
	Upload(ctx context.Context, owner Owner, input Input) (*UploadDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceParams struct {
	Repo     uploadStore
	Storage  storage.Storage
	MaxBytes int64
	Logger   *logger.Logger
}

type service struct {
	repo     uploadStore
	storage  storage.Storage
	maxBytes int64
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("uploads repository required")
	case params.Storage == nil:
		return nil, fmt.Errorf("storage required")
	case params.MaxBytes <= 0:
		return nil, fmt.Errorf("max upload bytes must be positive")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		storage:  params.Storage,
		maxBytes: params.MaxBytes,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

var errTooLarge = errors.New("upload exceeds size limit")

func (s *service) Upload(ctx context.Context, owner Owner, input Input) (*UploadDTO, error) {
	if owner.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kind must be image or document")
	}
	if input.Body == nil || input.Size == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.Size > s.maxBytes {
		return nil, s.tooLarge()
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	head = head[:n]
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	contentType, ok := detectMime(input.Kind, head)
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s uploads accept %s", input.Kind, allowedMimeDescription(input.Kind)).
			WithDetails(map[string]any{"detected": contentType})
	}

	id := uuid.New()
	key := buildKey(input.Kind, id, input.FileName, s.now())
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), input.Body), remaining: s.maxBytes}
	url, err := s.storage.Put(ctx, storage.Object{
		Key:         key,
		ContentType: contentType,
		Size:        input.Size,
		Body:        body,
	})
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, s.tooLarge()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	row := &models.Upload{
		ID:          id,
		OwnerRole:   owner.Role,
		OwnerID:     owner.ID,
		Kind:        input.Kind,
		FileName:    displayName(input.FileName, id),
		ContentType: contentType,
		SizeBytes:   body.read,
		StorageKey:  key,
		URL:         url,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "storage_key", key), "failed to remove orphaned upload", delErr)
		}
		return nil, db.MapError(err, "upload")
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{"upload_id": id, "kind": input.Kind, "size_bytes": row.SizeBytes})
	s.logg.Info(logCtx, "upload stored")
	return newUploadDTO(row), nil
}

// Delete removes the object first so a failed row delete leaves no orphan
// object behind.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return db.MapError(err, "upload")
	}
	if err := s.storage.Delete(ctx, row.StorageKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stored object")
	}
	return db.MapError(s.repo.Delete(ctx, id), "upload")
}

func (s *service) tooLarge() error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "file must be at most %d bytes", s.maxBytes).
		WithDetails(map[string]any{"max_bytes": s.maxBytes})
}

// limitedReader fails once more than remaining bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.remaining {
		return n, errTooLarge
	}
	return n, err
}

func newUploadDTO(m *models.Upload) *UploadDTO {
	return &UploadDTO{
		ID:          m.ID,
		Kind:        m.Kind,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		URL:         m.URL,
		CreatedAt:   m.CreatedAt,
	}
}

func buildKey(kind enums.UploadKind, id uuid.UUID, fileName string, now time.Time) string {
	return fmt.Sprintf("uploads/%s/%s/%s/%s", kind, now.UTC().Format("2006/01"), id.String(), displayName(fileName, id))
}

func displayName(fileName string, id uuid.UUID) string {
	if clean := sanitizeFileName(fileName); clean != "" {
		return clean
	}
	return id.String()
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
