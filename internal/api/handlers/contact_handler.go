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

type ContactHandler struct {
	contacts *services.ContactService
	notifier *services.NotificationService
}

func NewContactHandler(contacts *services.ContactService, notifier *services.NotificationService) *ContactHandler {
	return &ContactHandler{contacts: contacts, notifier: notifier}
}

type ContactRequest struct {
	Name    string `form:"name" json:"name" validate:"notblank,max=255"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Subject string `form:"subject" json:"subject" validate:"notblank,max=255"`
	Message string `form:"message" json:"message" validate:"notblank"`
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if !bind(c, &req) {
		return
	}

	sub := &models.ContactSubmission{
		Name:    trimmed(req.Name),
		Email:   trimmed(req.Email),
		Subject: trimmed(req.Subject),
		Message: trimmed(req.Message),
	}
	if err := h.contacts.Create(c.Request.Context(), sub); err != nil {
		respondInternal(c, err, "failed to create contact submission")
		return
	}

	metrics.IncSubmission(string(models.ResourceContacts))
	h.notifier.Notify(services.EventContact, "New contact submission",
		fmt.Sprintf("%s <%s>: %s", sub.Name, sub.Email, sub.Subject))
	c.JSON(http.StatusCreated, sub)
}

func (h *ContactHandler) ListActive(c *gin.Context) {
	subs, err := h.contacts.ListActive(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list contact submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *ContactHandler) ListAll(c *gin.Context) {
	subs, err := h.contacts.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list contact submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *ContactHandler) Archive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.contacts.Archive(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Contact submission not found")
	case err != nil:
		respondInternal(c, err, "failed to archive contact submission")
	default:
		metrics.IncVisibilityChange(string(models.ResourceContacts), false)
		c.JSON(http.StatusOK, gin.H{"message": "Query archived successfully"})
	}
}
