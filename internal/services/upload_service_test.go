package services

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_SaveResume(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	svc := NewUploadService(root)

	stored, err := svc.Save(FieldResume, fileHeader(t, "resume", "cv.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^resume-\d+\.pdf$`), stored.Name)
	assert.Equal(t, "cv.pdf", stored.OriginalName)
	assert.Equal(t, int64(8), stored.Size)

	data, err := os.ReadFile(filepath.Join(root, stored.Name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestUploadService_BlogMediaSubdirectories(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(root)

	img, err := svc.Save(FieldImage, fileHeader(t, "image", "cover.PNG", []byte("png")))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, BlogImagesDir, img.Name))

	doc, err := svc.Save(FieldDocument, fileHeader(t, "document", "notes.docx", []byte("docx")))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, BlogDocumentsDir, doc.Name))
}

func TestUploadService_RejectsUnsupportedType(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(root)

	cases := []struct {
		field, name string
	}{
		{FieldResume, "cv.exe"},
		{FieldResume, "photo.png"},
		{FieldImage, "cover.pdf"},
		{FieldDocument, "script.sh"},
	}
	for _, tc := range cases {
		_, err := svc.Save(tc.field, fileHeader(t, tc.field, tc.name, []byte("x")))
		assert.ErrorIs(t, err, ErrUnsupportedFileType, tc.name)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for rejected files")
}

func TestUploadService_SameMillisecondDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(root)
	fixed := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return fixed }

	first, err := svc.Save(FieldResume, fileHeader(t, "resume", "a.pdf", []byte("first")))
	require.NoError(t, err)
	second, err := svc.Save(FieldResume, fileHeader(t, "resume", "b.pdf", []byte("second")))
	require.NoError(t, err)

	assert.Equal(t, "resume-1700000000000.pdf", first.Name)
	assert.Equal(t, "resume-1700000000001.pdf", second.Name)

	data, err := os.ReadFile(filepath.Join(root, first.Name))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestUploadService_LocateAndRemove(t *testing.T) {
	root := t.TempDir()
	svc := NewUploadService(root)

	stored, err := svc.Save(FieldResume, fileHeader(t, "resume", "cv.pdf", []byte("pdf")))
	require.NoError(t, err)

	path, err := svc.Locate(FieldResume, stored.Name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, stored.Name), path)

	for _, bad := range []string{"", ".", "..", "../secret.pdf", `..\secret.pdf`, "a/b.pdf"} {
		_, err := svc.Locate(FieldResume, bad)
		assert.ErrorIs(t, err, ErrInvalidFilename, bad)
	}

	_, err = svc.Locate(FieldResume, "resume-1.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.Locate(FieldResume, BlogImagesDir)
	assert.Error(t, err)

	require.NoError(t, svc.Remove(FieldResume, stored.Name))
	assert.NoFileExists(t, path)
	assert.NoError(t, svc.Remove(FieldResume, stored.Name))
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		stored, original, want string
	}{
		{"resume-1700000000000.pdf", "cv.pdf", "cv.pdf"},
		{"resume-1700000000000-cv.pdf", "", "cv.pdf"},
		{"resume-1700000000000.pdf", "", "resume-1700000000000.pdf"},
		{"resume-1700000000000-my-cv-v2.pdf", "", "my-cv-v2.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DownloadName(tt.stored, tt.original), tt.stored)
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(FieldResume, "CV.PDF"))
	assert.True(t, Allowed(FieldImage, "a.jpeg"))
	assert.False(t, Allowed(FieldImage, "a.gif"))
	assert.True(t, Allowed("other", "a.png"), "unknown fields fall back to the global list")
	assert.False(t, Allowed("other", "a.html"))
}

func TestFieldForDir(t *testing.T) {
	field, ok := FieldForDir("")
	assert.True(t, ok)
	assert.Equal(t, FieldResume, field)

	field, ok = FieldForDir(BlogImagesDir)
	assert.True(t, ok)
	assert.Equal(t, FieldImage, field)

	_, ok = FieldForDir("private")
	assert.False(t, ok)
}
