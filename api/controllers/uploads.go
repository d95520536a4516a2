package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/autocenter-backend/api/middleware"
	"github.com/angelmondragon/autocenter-backend/internal/uploads"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

// multipartOverhead covers boundaries and form fields around the file part.
const multipartOverhead = 1 << 16

// UploadCreate accepts a multipart form with a "file" part and a "kind"
// field. The request body is capped at maxBytes plus form overhead; the
// service enforces the exact file limit while streaming.
func UploadCreate(svc uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "uploads service")
			return
		}
		ownerID, ok := actorID(w, r, logg)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeResult(w, r, logg, nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			writeResult(w, r, logg, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		kind, err := enums.ParseUploadKind(r.FormValue("kind"))
		if err != nil {
			writeResult(w, r, logg, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind").
				WithDetails(map[string]any{"field": "kind"}))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeResult(w, r, logg, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
				WithDetails(map[string]any{"field": "file"}))
			return
		}
		defer file.Close()

		owner := uploads.Owner{ID: ownerID, Role: middleware.RoleFromContext(r.Context())}
		out, err := svc.Upload(r.Context(), owner, uploads.Input{
			Kind:     kind,
			FileName: header.Filename,
			Size:     header.Size,
			Body:     file,
		})
		writeCreated(w, r, logg, out, err)
	}
}

func AdminUploadDelete(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "uploads service")
			return
		}
		id, ok := pathID(w, r, logg, "uploadId")
		if !ok {
			return
		}
		writeDeleted(w, r, logg, svc.Delete(r.Context(), id))
	}
}
