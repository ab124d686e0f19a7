package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

type VisibilityHandler struct {
	visibility *services.VisibilityService
}

func NewVisibilityHandler(visibility *services.VisibilityService) *VisibilityHandler {
	return &VisibilityHandler{visibility: visibility}
}

type VisibilityRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Update handles PUT /api/:type/:id/visibility. The type tag is checked
// against the closed resource set before anything else happens.
func (h *VisibilityHandler) Update(c *gin.Context) {
	rt, err := models.ParseResourceType(c.Param("type"))
	if err != nil {
		respondFieldErrors(c, []FieldError{{Field: "type", Message: "Invalid type specified"}})
		return
	}
	h.setActive(c, rt)
}

// For serves the visibility toggle of one resource type. It backs the fixed
// /api/<type>/:id/visibility routes, which gin matches ahead of the generic
// :type route whenever the tag collides with another static path.
func (h *VisibilityHandler) For(rt models.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.setActive(c, rt)
	}
}

func (h *VisibilityHandler) setActive(c *gin.Context, rt models.ResourceType) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req VisibilityRequest
	if !bind(c, &req) {
		return
	}

	err := h.visibility.SetActive(c.Request.Context(), rt, id, *req.IsActive)
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Record not found")
	case err != nil:
		respondInternal(c, err, "failed to update visibility")
	default:
		metrics.IncVisibilityChange(string(rt), *req.IsActive)
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s visibility updated successfully", rt)})
	}
}
