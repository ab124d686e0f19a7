package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/services"
)

type AdminUserHandler struct {
	users *services.AdminUserService
}

func NewAdminUserHandler(users *services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

type CreateAdminUserRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"notblank,max=32"`
}

// UpdateAdminUserRequest leaves the password unchanged when it is empty.
type UpdateAdminUserRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     string `json:"role" validate:"notblank,max=32"`
}

func (h *AdminUserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "failed to list admin users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminUserHandler) Create(c *gin.Context) {
	var req CreateAdminUserRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.users.Create(c.Request.Context(), trimmed(req.Username), req.Password, trimmed(req.Role))
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "Username already exists")
	case err != nil:
		respondInternal(c, err, "failed to create admin user")
	default:
		metrics.IncSubmission("admin_users")
		c.JSON(http.StatusCreated, u)
	}
}

func (h *AdminUserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAdminUserRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, trimmed(req.Username), req.Password, trimmed(req.Role))
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Admin user not found")
	case errors.Is(err, services.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "Username already exists")
	case err != nil:
		respondInternal(c, err, "failed to update admin user")
	default:
		c.JSON(http.StatusOK, u)
	}
}

func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.users.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "Admin user not found")
	case err != nil:
		respondInternal(c, err, "failed to delete admin user")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Admin user deleted successfully"})
	}
}
