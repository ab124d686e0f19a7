package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

type ApplicationHandler struct {
	apps     *services.ApplicationService
	uploads  *services.UploadService
	notifier *services.NotificationService
}

func NewApplicationHandler(apps *services.ApplicationService, uploads *services.UploadService, notifier *services.NotificationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, uploads: uploads, notifier: notifier}
}

// ApplyRequest is the careers form. YearOfQualification stays a string so a
// non-numeric value is reported as a field error rather than a bind failure.
type ApplyRequest struct {
	PostAppliedFor        string `form:"postAppliedFor" json:"postAppliedFor" validate:"notblank"`
	Name                  string `form:"name" json:"name" validate:"notblank,max=255"`
	Phone                 string `form:"phone" json:"phone" validate:"notblank,max=32"`
	Email                 string `form:"email" json:"email" validate:"required,email"`
	Qualification         string `form:"qualification" json:"qualification" validate:"notblank"`
	YearOfQualification   string `form:"yearOfQualification" json:"yearOfQualification" validate:"required,number,len=4"`
	Address               string `form:"address" json:"address" validate:"notblank"`
	OtherDetails          string `form:"otherDetails" json:"otherDetails"`
	PreferredWorkLocation string `form:"preferredWorkLocation" json:"preferredWorkLocation" validate:"notblank"`
}

// Apply stores a job application with an optional résumé.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !bind(c, &req) {
		return
	}
	files, fieldErrs, err := collectUploads(c, services.FieldResume)
	if err != nil {
		respondFieldErrors(c, []FieldError{{Field: services.FieldResume, Message: "could not be read"}})
		return
	}
	if len(fieldErrs) > 0 {
		respondFieldErrors(c, fieldErrs)
		return
	}

	year, _ := strconv.Atoi(req.YearOfQualification)
	app := &models.JobApplication{
		PostAppliedFor:        trimmed(req.PostAppliedFor),
		Name:                  trimmed(req.Name),
		Phone:                 trimmed(req.Phone),
		Email:                 trimmed(req.Email),
		Qualification:         trimmed(req.Qualification),
		YearOfQualification:   year,
		Address:               trimmed(req.Address),
		PreferredWorkLocation: trimmed(req.PreferredWorkLocation),
	}
	if details := trimmed(req.OtherDetails); details != "" {
		app.OtherDetails = &details
	}

	stored, err := saveUploads(h.uploads, files)
	if err != nil {
		respondInternal(c, err, "failed to store resume")
		return
	}
	if sf, ok := stored[services.FieldResume]; ok {
		app.ResumeFileName = &sf.Name
		if sf.OriginalName != "" {
			app.ResumeOriginalName = &sf.OriginalName
		}
	}

	if err := h.apps.Create(c.Request.Context(), app); err != nil {
		discardUploads(h.uploads, stored)
		respondInternal(c, err, "failed to create job application")
		return
	}

	metrics.IncSubmission(string(models.ResourceApplications))
	h.notifier.Notify(services.EventJobApplication, "New job application",
		fmt.Sprintf("%s applied for %s (%s, %s)", app.Name, app.PostAppliedFor, app.Email, app.Phone))
	c.JSON(http.StatusCreated, app)
}

// ListActive returns the applications shown on the admin dashboard.
func (h *ApplicationHandler) ListActive(c *gin.Context) {
	apps, err := h.apps.ListActive(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListAll includes archived applications.
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	apps, err := h.apps.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Archive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.apps.Archive(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Application not found")
	case err != nil:
		respondInternal(c, err, "failed to archive application")
	default:
		metrics.IncVisibilityChange(string(models.ResourceApplications), false)
		c.JSON(http.StatusOK, gin.H{"message": "Application archived successfully"})
	}
}

// DownloadResume streams a stored résumé under the name the applicant
// uploaded it with.
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	filename := c.Param("filename")
	path, err := h.uploads.Locate(services.FieldResume, filename)
	switch {
	case errors.Is(err, services.ErrInvalidFilename), errors.Is(err, services.ErrFileNotFound):
		respondError(c, http.StatusNotFound, "File not found")
		return
	case err != nil:
		respondInternal(c, err, "failed to locate resume")
		return
	}

	original := ""
	app, err := h.apps.FindByResume(c.Request.Context(), filename)
	switch {
	case err == nil && app.ResumeOriginalName != nil:
		original = *app.ResumeOriginalName
	case err != nil && !errors.Is(err, services.ErrRecordNotFound):
		respondInternal(c, err, "failed to look up resume owner")
		return
	}

	c.FileAttachment(path, services.DownloadName(filename, original))
}
