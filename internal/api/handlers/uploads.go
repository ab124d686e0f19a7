package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/services"
)

// collectUploads picks up the optional files of fields and checks their
// extensions before anything is written. Invalid files come back as field
// errors.
func collectUploads(c *gin.Context, fields ...string) (map[string]*multipart.FileHeader, []FieldError, error) {
	files := make(map[string]*multipart.FileHeader)
	var errs []FieldError
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if !services.Allowed(field, fh.Filename) {
			errs = append(errs, FieldError{Field: field, Message: "unsupported file type"})
			continue
		}
		files[field] = fh
	}
	return files, errs, nil
}

// saveUploads stores every collected file. On failure the files already
// written are removed again.
func saveUploads(uploads *services.UploadService, files map[string]*multipart.FileHeader) (map[string]*services.StoredFile, error) {
	stored := make(map[string]*services.StoredFile, len(files))
	for field, fh := range files {
		sf, err := uploads.Save(field, fh)
		if err != nil {
			discardUploads(uploads, stored)
			return nil, err
		}
		stored[field] = sf
		metrics.IncUpload(field)
	}
	return stored, nil
}

// discardUploads removes stored files whose database row was never written.
func discardUploads(uploads *services.UploadService, stored map[string]*services.StoredFile) {
	for field, sf := range stored {
		_ = uploads.Remove(field, sf.Name)
	}
}

func storedName(stored map[string]*services.StoredFile, field string) *string {
	if sf, ok := stored[field]; ok {
		name := sf.Name
		return &name
	}
	return nil
}
