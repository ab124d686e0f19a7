package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/api/middleware"
	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

type BlogHandler struct {
	blogs   *services.BlogService
	uploads *services.UploadService
}

func NewBlogHandler(blogs *services.BlogService, uploads *services.UploadService) *BlogHandler {
	return &BlogHandler{blogs: blogs, uploads: uploads}
}

type BlogRequest struct {
	Title   string `form:"title" json:"title" validate:"notblank,max=255"`
	Content string `form:"content" json:"content" validate:"notblank"`
	Author  string `form:"author" json:"author" validate:"notblank,max=255"`
	// PreviousData is the JSON snapshot the editor started from. Update only.
	PreviousData string `form:"previousData" json:"previousData"`
}

func (r BlogRequest) snapshot() models.BlogSnapshot {
	return models.BlogSnapshot{Title: trimmed(r.Title), Content: r.Content, Author: trimmed(r.Author)}
}

// bindBlog binds the form, decodes previousData when present and stores the
// optional image and document. Nothing is written unless the whole request
// is valid.
func (h *BlogHandler) bindBlog(c *gin.Context) (*BlogRequest, *models.BlogSnapshot, map[string]*services.StoredFile, bool) {
	var req BlogRequest
	if !bind(c, &req) {
		return nil, nil, nil, false
	}

	var previous *models.BlogSnapshot
	if req.PreviousData != "" {
		previous = &models.BlogSnapshot{}
		if err := json.Unmarshal([]byte(req.PreviousData), previous); err != nil {
			respondFieldErrors(c, []FieldError{{Field: "previousData", Message: "must be valid JSON"}})
			return nil, nil, nil, false
		}
	}

	files, fieldErrs, err := collectUploads(c, services.FieldImage, services.FieldDocument)
	if err != nil {
		respondFieldErrors(c, []FieldError{{Field: "body", Message: "could not be parsed"}})
		return nil, nil, nil, false
	}
	if len(fieldErrs) > 0 {
		respondFieldErrors(c, fieldErrs)
		return nil, nil, nil, false
	}
	stored, err := saveUploads(h.uploads, files)
	if err != nil {
		respondInternal(c, err, "failed to store blog media")
		return nil, nil, nil, false
	}
	return &req, previous, stored, true
}

func (h *BlogHandler) Create(c *gin.Context) {
	req, _, stored, ok := h.bindBlog(c)
	if !ok {
		return
	}

	snap := req.snapshot()
	blog := &models.Blog{
		Title:       snap.Title,
		Content:     snap.Content,
		Author:      snap.Author,
		ImageURL:    storedName(stored, services.FieldImage),
		DocumentURL: storedName(stored, services.FieldDocument),
	}
	if err := h.blogs.Create(c.Request.Context(), blog); err != nil {
		discardUploads(h.uploads, stored)
		respondInternal(c, err, "failed to create blog")
		return
	}

	metrics.IncSubmission(string(models.ResourceBlogs))
	c.JSON(http.StatusCreated, blog)
}

// ListActive returns the posts shown on the public site.
func (h *BlogHandler) ListActive(c *gin.Context) {
	blogs, err := h.blogs.ListActive(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list blogs")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (h *BlogHandler) ListAll(c *gin.Context) {
	blogs, err := h.blogs.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list blogs")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	blog, err := h.blogs.GetByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "Blog not found")
	case err != nil:
		respondInternal(c, err, "failed to load blog")
	default:
		c.JSON(http.StatusOK, blog)
	}
}

// Update edits a post and records which audited fields changed.
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	current, err := h.blogs.GetByID(c.Request.Context(), id)
	if errors.Is(err, services.ErrBlogNotFound) {
		respondError(c, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "failed to load blog")
		return
	}

	req, previous, stored, ok := h.bindBlog(c)
	if !ok {
		return
	}

	u := services.BlogUpdate{
		BlogSnapshot: req.snapshot(),
		Previous:     previous,
		ImageURL:     storedName(stored, services.FieldImage),
		DocumentURL:  storedName(stored, services.FieldDocument),
	}
	blog, logs, err := h.blogs.Update(c.Request.Context(), id, u)
	if err != nil {
		discardUploads(h.uploads, stored)
		if errors.Is(err, services.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		respondInternal(c, err, "failed to update blog")
		return
	}

	if u.ImageURL != nil && current.ImageURL != nil {
		h.removeMedia(c, services.FieldImage, *current.ImageURL)
	}
	if u.DocumentURL != nil && current.DocumentURL != nil {
		h.removeMedia(c, services.FieldDocument, *current.DocumentURL)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog updated successfully",
		"blog":    blog,
		"changes": logs,
	})
}

// Delete permanently removes a post together with its media files. Edit
// logs are kept.
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	blog, err := h.blogs.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "Blog not found")
		return
	case err != nil:
		respondInternal(c, err, "failed to delete blog")
		return
	}

	if blog.ImageURL != nil {
		h.removeMedia(c, services.FieldImage, *blog.ImageURL)
	}
	if blog.DocumentURL != nil {
		h.removeMedia(c, services.FieldDocument, *blog.DocumentURL)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// EditLogs returns the audit trail of a post, newest first.
func (h *BlogHandler) EditLogs(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	logs, err := h.blogs.EditLogs(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err, "failed to list blog edit logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *BlogHandler) removeMedia(c *gin.Context, field, name string) {
	if err := h.uploads.Remove(field, name); err != nil {
		middleware.GetRequestLogger(c).WithError(err).WithField("field", field).Warn("failed to remove blog media")
	}
}
