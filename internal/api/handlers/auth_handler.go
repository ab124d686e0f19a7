package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cafirm/website/backend/internal/api/middleware"
	"github.com/cafirm/website/backend/internal/metrics"
	"github.com/cafirm/website/backend/internal/services"
	"github.com/cafirm/website/backend/internal/util"
)

type AuthHandler struct {
	auth         *services.AuthService
	users        *services.AdminUserService
	secureCookie bool
	ttl          time.Duration
}

// NewAuthHandler creates the admin login handler. secureCookie marks the
// session cookie HTTPS-only and should be set in production.
func NewAuthHandler(auth *services.AuthService, users *services.AdminUserService, secureCookie bool, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, secureCookie: secureCookie, ttl: ttl}
}

// setSessionCookie writes the session cookie HttpOnly with SameSite=Strict.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookie, value, maxAge, "/", "", h.secureCookie, true)
}

type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// Login verifies admin credentials. Unknown usernames and wrong passwords get
// the same 401 response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	log := middleware.GetRequestLogger(c).WithField("username", util.SanitizeForLog(req.Username))
	log.Info("login attempt")

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		metrics.IncLogin("failure")
		log.Warn("login failed: invalid credentials")
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		metrics.IncLogin("error")
		respondInternal(c, err, "login failed")
		return
	}

	metrics.IncLogin("success")
	log.Info("login successful")
	h.setSessionCookie(c, token, int(h.ttl.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"role":    user.Role,
		"message": "Login successful",
		"token":   token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the identity behind the session token.
func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := c.Get(middleware.UserIDKey)
	uid, _ := id.(uint)
	u, err := h.users.GetByID(c.Request.Context(), uid)
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(c, http.StatusUnauthorized, "Account no longer exists")
	case err != nil:
		respondInternal(c, err, "failed to load admin user")
	default:
		c.JSON(http.StatusOK, u)
	}
}
