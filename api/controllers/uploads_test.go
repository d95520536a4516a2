package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/autocenter-backend/api/middleware"
	"github.com/angelmondragon/autocenter-backend/internal/uploads"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

type stubUploadService struct {
	owner uploads.Owner
	input uploads.Input
	body  []byte
}

func (s *stubUploadService) Upload(ctx context.Context, owner uploads.Owner, input uploads.Input) (*uploads.UploadDTO, error) {
	s.owner, s.input = owner, input
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	s.body = data
	return &uploads.UploadDTO{ID: uuid.New(), Kind: input.Kind, FileName: input.FileName}, nil
}

func (s *stubUploadService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func multipartRequest(t *testing.T, kind string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if kind != "" {
		if err := form.WriteField("kind", kind); err != nil {
			t.Fatalf("write kind: %v", err)
		}
	}
	if content != nil {
		part, err := form.CreateFormFile("file", "brake-pads.png")
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestUploadCreate(t *testing.T) {
	customerID := uuid.New()
	payload := []byte("\x89PNG\r\n\x1a\nfake")

	t.Run("requires actor", func(t *testing.T) {
		rec := httptest.NewRecorder()
		UploadCreate(&stubUploadService{}, 1024, logger.Nop()).ServeHTTP(rec, multipartRequest(t, "image", payload))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		req := multipartRequest(t, "video", payload)
		req = req.WithContext(middleware.WithActor(req.Context(), customerID, enums.ActorRoleCustomer))
		rec := httptest.NewRecorder()
		UploadCreate(&stubUploadService{}, 1024, logger.Nop()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("requires file part", func(t *testing.T) {
		req := multipartRequest(t, "image", nil)
		req = req.WithContext(middleware.WithActor(req.Context(), customerID, enums.ActorRoleCustomer))
		rec := httptest.NewRecorder()
		UploadCreate(&stubUploadService{}, 1024, logger.Nop()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("forwards file and owner", func(t *testing.T) {
		stub := &stubUploadService{}
		req := multipartRequest(t, "image", payload)
		req = req.WithContext(middleware.WithActor(req.Context(), customerID, enums.ActorRoleCustomer))
		rec := httptest.NewRecorder()
		UploadCreate(stub, 1024, logger.Nop()).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.owner.ID != customerID || stub.owner.Role != enums.ActorRoleCustomer {
			t.Fatalf("unexpected owner %+v", stub.owner)
		}
		if stub.input.Kind != enums.UploadKindImage || stub.input.FileName != "brake-pads.png" {
			t.Fatalf("unexpected input %+v", stub.input)
		}
		if !bytes.Equal(stub.body, payload) {
			t.Fatalf("expected body streamed through")
		}
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		req := multipartRequest(t, "image", bytes.Repeat([]byte("a"), 200_000))
		req = req.WithContext(middleware.WithActor(req.Context(), customerID, enums.ActorRoleCustomer))
		rec := httptest.NewRecorder()
		UploadCreate(&stubUploadService{}, 1024, logger.Nop()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
