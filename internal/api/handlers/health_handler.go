package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/database"
	"github.com/cafirm/website/backend/internal/version"
)

// HealthHandler reports service metadata and whether the database answers.
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, dbStatus, code := "ok", "ok", http.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			status, dbStatus, code = "degraded", "unreachable", http.StatusServiceUnavailable
		}
		body := gin.H{"status": status, "database": dbStatus}
		for k, v := range version.Fields() {
			body[k] = v
		}
		c.JSON(code, body)
	}
}
