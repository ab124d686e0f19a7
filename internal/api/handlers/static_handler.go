package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/services"
)

// UploadsHandler serves stored uploads under /uploads/*filepath. Only files
// with an allowed extension are served, directories are never listed, and
// responses may be embedded by the frontend origin.
func UploadsHandler(uploads *services.UploadService, frontendOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := strings.TrimPrefix(path.Clean("/"+c.Param("filepath")), "/")
		dir, name := path.Split(rel)
		dir = strings.TrimSuffix(dir, "/")

		if !services.AllowedExtensions[strings.ToLower(path.Ext(name))] {
			c.String(http.StatusForbidden, "Forbidden")
			return
		}
		field, ok := services.FieldForDir(dir)
		if !ok {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		file, err := uploads.Locate(field, name)
		if errors.Is(err, services.ErrFileNotFound) || errors.Is(err, services.ErrInvalidFilename) {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		if err != nil {
			respondInternal(c, err, "failed to serve upload")
			return
		}

		if frontendOrigin != "" {
			c.Header("Access-Control-Allow-Origin", frontendOrigin)
		}
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		c.File(file)
	}
}
