package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafirm/website/backend/internal/api/middleware"
	"github.com/cafirm/website/backend/internal/logger"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

func seedAdmin(t *testing.T, env *testEnv, username, password, role string) *models.AdminUser {
	t.Helper()
	u, err := services.NewAdminUserService(env.db, 0).Create(context.Background(), username, password, role)
	require.NoError(t, err)
	return u
}

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookie {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	seedAdmin(t, env, "partner", "s3cret!", models.RoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "partner", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[map[string]string](t, w)
	assert.Equal(t, models.RoleAdmin, body["role"])
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, body["token"], cookie.Value)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	seedAdmin(t, env, "partner", "s3cret!", models.RoleAdmin)

	wrongPassword := env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "partner", "password": "guess"})
	unknownUser := env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "nobody", "password": "guess"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Nil(t, sessionCookie(wrongPassword))
	assert.Nil(t, sessionCookie(unknownUser))
}

func TestLogin_LogsUsernameNotPassword(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.Init(false, buf)
	t.Cleanup(func() { logger.Init(false, nil) })

	env := newTestEnv(t)
	seedAdmin(t, env, "partner", "s3cret!", models.RoleAdmin)

	env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "partner\nforged", "password": "hunter2-secret"})
	env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "partner", "password": "s3cret!"})

	out := buf.String()
	assert.Contains(t, out, "login attempt")
	assert.Contains(t, out, "partner forged")
	assert.Contains(t, out, "login successful")
	assert.NotContains(t, out, "hunter2-secret")
	assert.NotContains(t, out, "s3cret!")
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "partner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"password"}, fieldNames(t, w))
}

func TestLogoutAndMe(t *testing.T) {
	env := newTestEnv(t)
	admin := seedAdmin(t, env, "partner", "s3cret!", models.RoleAdmin)

	token, err := env.auth.GenerateToken(admin)
	require.NoError(t, err)

	req := httptestRequest(http.MethodGet, "/api/admin/me")
	req.Header.Set("Authorization", "Bearer "+token)
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.AdminUser](t, w)
	assert.Equal(t, "partner", me.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(httptestRequest(http.MethodGet, "/api/admin/me"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
