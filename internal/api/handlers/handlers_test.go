package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/api/middleware"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

const testSecret = "handler-test-secret"

// testEnv wires every handler onto one router without authentication so each
// test can drive the endpoints directly.
type testEnv struct {
	db      *gorm.DB
	uploads *services.UploadService
	auth    *services.AuthService
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := OpenTestDB(t)
	uploads := services.NewUploadService(t.TempDir())
	auth := services.NewAuthService(db, testSecret, time.Hour, 0)
	users := services.NewAdminUserService(db, 0)

	apps := NewApplicationHandler(services.NewApplicationService(db, 0), uploads, nil)
	contacts := NewContactHandler(services.NewContactService(db, 0), nil)
	blogs := NewBlogHandler(services.NewBlogService(db, 0), uploads)
	visibility := NewVisibilityHandler(services.NewVisibilityService(db, 0))
	visitors := NewVisitorHandler(services.NewVisitorService(db, 0))
	adminUsers := NewAdminUserHandler(users)
	authHandler := NewAuthHandler(auth, users, false, time.Hour)

	r := gin.New()
	r.GET("/uploads/*filepath", UploadsHandler(uploads, "http://localhost:3000"))
	api := r.Group("/api")
	api.GET("/health", HealthHandler(db))
	api.POST("/apply", apps.Apply)
	api.GET("/applications", apps.ListActive)
	api.GET("/applications/all", apps.ListAll)
	api.PUT("/applications/:id", apps.Archive)
	api.GET("/download-resume/:filename", apps.DownloadResume)
	api.POST("/contact", contacts.Create)
	api.GET("/contact-submissions", contacts.ListActive)
	api.GET("/contact-submissions/all", contacts.ListAll)
	api.PUT("/contact-submissions/:id", contacts.Archive)
	for _, rt := range models.ResourceTypes() {
		api.PUT("/"+string(rt)+"/:id/visibility", visibility.For(rt))
	}
	api.PUT("/:type/:id/visibility", visibility.Update)
	api.POST("/blogs", blogs.Create)
	api.GET("/blogs", blogs.ListActive)
	api.GET("/blogs/all", blogs.ListAll)
	api.GET("/blogs/:id", blogs.Get)
	api.PUT("/blogs/:id", blogs.Update)
	api.DELETE("/blogs/:id", blogs.Delete)
	api.GET("/blogs/:id/edit-logs", blogs.EditLogs)
	api.POST("/track-visit", visitors.Track)
	api.GET("/visitor-stats", visitors.Stats)
	api.POST("/admin/login", authHandler.Login)
	api.POST("/admin/logout", authHandler.Logout)
	api.GET("/admin/me", middleware.AuthMiddleware(auth), authHandler.Me)
	api.GET("/admin-users", adminUsers.List)
	api.POST("/admin-users", adminUsers.Create)
	api.PUT("/admin-users/:id", adminUsers.Update)
	api.DELETE("/admin-users/:id", adminUsers.Delete)

	return &testEnv{db: db, uploads: uploads, auth: auth, router: r}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

type upload struct {
	field, filename string
	content         []byte
}

// doMultipart sends fields and files as multipart/form-data.
func (e *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorsBody struct {
	Errors []FieldError `json:"errors"`
}

func fieldNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	body := decode[errorsBody](t, w)
	names := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		names = append(names, e.Field)
	}
	return names
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func validApplication() map[string]string {
	return map[string]string{
		"postAppliedFor":        "Audit Associate",
		"name":                  "Jane Doe",
		"phone":                 "+91 98765 43210",
		"email":                 "jane@example.com",
		"qualification":         "CA",
		"yearOfQualification":   "2021",
		"address":               "12 MG Road, Pune",
		"otherDetails":          "Articleship at a Big Four firm",
		"preferredWorkLocation": "Pune",
	}
}

func seedBlog(t *testing.T, db *gorm.DB, title string) *models.Blog {
	t.Helper()
	blog := &models.Blog{Title: title, Content: "Content of " + title, Author: "Asha"}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
