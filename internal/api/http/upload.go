package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"posrecon-backend/internal/domain"
)

// uploadedFile returns the "file" part of a multipart upload, capped at the
// configured size.
func (h *WorkspaceHandler) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", domain.NewValidationError("file", "upload is too large")
		}
		return nil, "", domain.NewValidationError("file", "expected a multipart upload")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", domain.NewValidationError("file", "file is required")
	}
	return file, header.Filename, nil
}
