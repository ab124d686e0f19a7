package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/services"
)

type blogUpdateResponse struct {
	Message string               `json:"message"`
	Blog    models.Blog          `json:"blog"`
	Changes []models.BlogEditLog `json:"changes"`
}

func blogForm(title, content, author string, previous *models.BlogSnapshot) map[string]string {
	form := map[string]string{"title": title, "content": content, "author": author}
	if previous != nil {
		raw, _ := json.Marshal(previous)
		form["previousData"] = string(raw)
	}
	return form
}

func TestBlog_CreateWithMedia(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, http.MethodPost, "/api/blogs", blogForm("Budget 2026", "Highlights", "Asha", nil),
		upload{field: "image", filename: "cover.png", content: []byte("png")},
		upload{field: "document", filename: "notes.pdf", content: []byte("pdf")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	blog := decode[models.Blog](t, w)
	assert.True(t, blog.IsActive)
	require.NotNil(t, blog.ImageURL)
	require.NotNil(t, blog.DocumentURL)
	assert.Regexp(t, `^image-\d+\.png$`, *blog.ImageURL)
	assert.Regexp(t, `^document-\d+\.pdf$`, *blog.DocumentURL)
	assert.FileExists(t, filepath.Join(env.uploads.Root(), services.BlogImagesDir, *blog.ImageURL))
	assert.FileExists(t, filepath.Join(env.uploads.Root(), services.BlogDocumentsDir, *blog.DocumentURL))
}

func TestBlog_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, http.MethodPost, "/api/blogs", blogForm("", "Highlights", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"title", "author"}, fieldNames(t, w))

	w = env.doMultipart(t, http.MethodPost, "/api/blogs", blogForm("t", "c", "a", nil),
		upload{field: "image", filename: "cover.gif", content: []byte("gif")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldNames(t, w), "image")
	assert.Zero(t, count(t, env.db, &models.Blog{}))
}

func TestBlog_ListsAndGet(t *testing.T) {
	env := newTestEnv(t)
	archived := seedBlog(t, env.db, "Old news")
	visible := seedBlog(t, env.db, "Fresh news")
	require.NoError(t, env.db.Model(archived).Update("is_active", false).Error)

	active := decode[[]models.Blog](t, env.do(httptestRequest(http.MethodGet, "/api/blogs")))
	require.Len(t, active, 1)
	assert.Equal(t, visible.ID, active[0].ID)

	all := decode[[]models.Blog](t, env.do(httptestRequest(http.MethodGet, "/api/blogs/all")))
	assert.Len(t, all, 2)

	w := env.do(httptestRequest(http.MethodGet, "/api/blogs/"+itoa(visible.ID)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fresh news", decode[models.Blog](t, w).Title)

	w = env.do(httptestRequest(http.MethodGet, "/api/blogs/999"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Blog not found")
}

func TestBlog_UpdateTitleOnlyLogsOneChange(t *testing.T) {
	env := newTestEnv(t)
	blog := seedBlog(t, env.db, "Budget")
	previous := blog.Snapshot()

	w := env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(blog.ID),
		blogForm("Union Budget", blog.Content, blog.Author, &previous))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[blogUpdateResponse](t, w)
	assert.Equal(t, "Blog updated successfully", resp.Message)
	assert.Equal(t, "Union Budget", resp.Blog.Title)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, models.BlogFieldTitle, resp.Changes[0].FieldName)

	logs := decode[[]models.BlogEditLog](t, env.do(httptestRequest(http.MethodGet, "/api/blogs/"+itoa(blog.ID)+"/edit-logs")))
	require.Len(t, logs, 1)
	assert.Equal(t, "Budget", logs[0].OldValue)
	assert.Equal(t, "Union Budget", logs[0].NewValue)
}

func TestBlog_UpdateWithoutChangesLogsNothing(t *testing.T) {
	env := newTestEnv(t)
	blog := seedBlog(t, env.db, "Budget")
	previous := blog.Snapshot()

	w := env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(blog.ID),
		blogForm(blog.Title, blog.Content, blog.Author, &previous))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, decode[blogUpdateResponse](t, w).Changes)
	assert.Zero(t, count(t, env.db, &models.BlogEditLog{}))
}

func TestBlog_UpdateWithoutPreviousDataUsesStoredRow(t *testing.T) {
	env := newTestEnv(t)
	blog := seedBlog(t, env.db, "Budget")

	w := env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(blog.ID),
		blogForm(blog.Title, blog.Content, "Vikram", nil))
	require.Equal(t, http.StatusOK, w.Code)

	changes := decode[blogUpdateResponse](t, w).Changes
	require.Len(t, changes, 1)
	assert.Equal(t, models.BlogFieldAuthor, changes[0].FieldName)
}

func TestBlog_UpdateErrors(t *testing.T) {
	env := newTestEnv(t)
	blog := seedBlog(t, env.db, "Budget")

	form := blogForm("New", blog.Content, blog.Author, nil)
	form["previousData"] = "{not json"
	w := env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(blog.ID), form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldNames(t, w), "previousData")

	w = env.doMultipart(t, http.MethodPut, "/api/blogs/999", blogForm("t", "c", "a", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Blog
	require.NoError(t, env.db.First(&stored, blog.ID).Error)
	assert.Equal(t, "Budget", stored.Title)
	assert.Zero(t, count(t, env.db, &models.BlogEditLog{}))
}

func TestBlog_UpdateReplacesImage(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, http.MethodPost, "/api/blogs", blogForm("Budget", "Highlights", "Asha", nil),
		upload{field: "image", filename: "old.jpg", content: []byte("old")})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Blog](t, w)
	oldPath := filepath.Join(env.uploads.Root(), services.BlogImagesDir, *created.ImageURL)

	w = env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(created.ID), blogForm("Budget", "Highlights", "Asha", nil),
		upload{field: "image", filename: "new.jpeg", content: []byte("new")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[blogUpdateResponse](t, w).Blog
	require.NotNil(t, updated.ImageURL)
	assert.Regexp(t, `^image-\d+\.jpeg$`, *updated.ImageURL)
	assert.FileExists(t, filepath.Join(env.uploads.Root(), services.BlogImagesDir, *updated.ImageURL))
	assert.NoFileExists(t, oldPath)
}

func TestBlog_DeleteRemovesRowAndMediaButKeepsLogs(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, http.MethodPost, "/api/blogs", blogForm("Budget", "Highlights", "Asha", nil),
		upload{field: "document", filename: "notes.docx", content: []byte("docx")})
	require.Equal(t, http.StatusCreated, w.Code)
	blog := decode[models.Blog](t, w)
	docPath := filepath.Join(env.uploads.Root(), services.BlogDocumentsDir, *blog.DocumentURL)

	w = env.doMultipart(t, http.MethodPut, "/api/blogs/"+itoa(blog.ID), blogForm("Budget 2", "Highlights", "Asha", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodDelete, "/api/blogs/"+itoa(blog.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Blog deleted successfully")

	assert.Equal(t, http.StatusNotFound, env.do(httptestRequest(http.MethodGet, "/api/blogs/"+itoa(blog.ID))).Code)
	assert.NoFileExists(t, docPath)
	assert.Equal(t, int64(1), count(t, env.db, &models.BlogEditLog{}))

	assert.Equal(t, http.StatusNotFound, env.doJSON(t, http.MethodDelete, "/api/blogs/"+itoa(blog.ID), nil).Code)
}
