package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/services"
)

type VisitorHandler struct {
	visitors *services.VisitorService
}

func NewVisitorHandler(visitors *services.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitors: visitors}
}

type TrackVisitRequest struct {
	PageURL string `json:"page_url" validate:"notblank,max=2048"`
}

// Track records a page view with the client address and user agent.
func (h *VisitorHandler) Track(c *gin.Context) {
	var req TrackVisitRequest
	if !bind(c, &req) {
		return
	}
	if err := h.visitors.Track(c.Request.Context(), req.PageURL, c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondInternal(c, err, "failed to track visit")
		return
	}
	metrics.IncVisit()
	c.JSON(http.StatusCreated, gin.H{"message": "Visit tracked"})
}

// Stats returns per-day visit totals, most recent day first.
func (h *VisitorHandler) Stats(c *gin.Context) {
	stats, err := h.visitors.Stats(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to aggregate visits")
		return
	}
	c.JSON(http.StatusOK, stats)
}
