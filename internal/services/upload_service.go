package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cafirm/website/backend/internal/util"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidFilename     = errors.New("invalid filename")
	ErrFileNotFound        = errors.New("file not found")
)

// Upload field names accepted by the site.
const (
	FieldResume   = "resume"
	FieldImage    = "image"
	FieldDocument = "document"
)

// Blog media subdirectories of the content directory.
const (
	BlogImagesDir    = "blog-images"
	BlogDocumentsDir = "blog-documents"
)

// AllowedExtensions is the set of file types the site stores and serves.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// fieldRules narrows the allow-list per form field and picks the subdirectory.
var fieldRules = map[string]struct {
	dir  string
	exts []string
}{
	FieldResume:   {dir: "", exts: []string{".pdf", ".docx"}},
	FieldImage:    {dir: BlogImagesDir, exts: []string{".jpg", ".jpeg", ".png"}},
	FieldDocument: {dir: BlogDocumentsDir, exts: []string{".pdf", ".docx"}},
}

// generatedName matches "{field}-{millis}-{original}" names written by older
// deployments, which embedded the client filename.
var generatedName = regexp.MustCompile(`^[A-Za-z]+-\d+-(.+)$`)

const maxNameAttempts = 100

// StoredFile describes a persisted upload.
type StoredFile struct {
	Field        string
	Name         string // server generated, relative to the field directory
	OriginalName string // sanitized client filename, for downloads only
	Size         int64
}

// UploadService writes multipart files into the content directory under
// server generated names of the form {field}-{millis}{ext}.
type UploadService struct {
	root string
	now  func() time.Time
	mu   sync.Mutex
}

func NewUploadService(root string) *UploadService {
	return &UploadService{root: root, now: time.Now}
}

// Root returns the content directory.
func (s *UploadService) Root() string { return s.root }

// Dir returns the directory files of field are written to.
func (s *UploadService) Dir(field string) string {
	if rule, ok := fieldRules[field]; ok && rule.dir != "" {
		return filepath.Join(s.root, rule.dir)
	}
	return s.root
}

// FieldForDir maps a subdirectory of the content directory back to the
// upload field stored there. The root directory holds résumés.
func FieldForDir(dir string) (string, bool) {
	for field, rule := range fieldRules {
		if rule.dir == dir {
			return field, true
		}
	}
	return "", false
}

// Allowed reports whether a file with the given name may be stored for field.
func Allowed(field, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	rule, ok := fieldRules[field]
	if !ok {
		return AllowedExtensions[ext]
	}
	for _, e := range rule.exts {
		if e == ext {
			return true
		}
	}
	return false
}

// Save persists fh for field and returns the generated name. Only the
// extension of the client filename is kept in the stored name.
func (s *UploadService) Save(field string, fh *multipart.FileHeader) (*StoredFile, error) {
	if !Allowed(field, fh.Filename) {
		return nil, ErrUnsupportedFileType
	}

	dir := s.Dir(field)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, name, err := s.create(dir, field, filepath.Ext(fh.Filename))
	if err != nil {
		return nil, err
	}

	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(filepath.Join(dir, name))
		if copyErr == nil {
			copyErr = closeErr
		}
		return nil, fmt.Errorf("write upload: %w", copyErr)
	}

	return &StoredFile{
		Field:        field,
		Name:         name,
		OriginalName: util.SanitizeFilename(fh.Filename),
		Size:         n,
	}, nil
}

// create exclusively creates the next free {field}-{millis}{ext} file in dir.
// A name taken by a concurrent upload in the same millisecond bumps the stamp.
func (s *UploadService) create(dir, field, ext string) (*os.File, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := fmt.Sprintf("%s-%d%s", field, stamp+int64(i), ext)
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("create upload file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload file: no free name after %d attempts", maxNameAttempts)
}

// Locate returns the path of a stored file of field, refusing names that
// would escape the field directory.
func (s *UploadService) Locate(field, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidFilename
	}
	path := filepath.Join(s.Dir(field), name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrFileNotFound
	}
	return path, nil
}

// Remove deletes a stored file of field. Missing files are not an error.
func (s *UploadService) Remove(field, name string) error {
	path, err := s.Locate(field, name)
	if errors.Is(err, ErrFileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// DownloadName picks the filename offered to the client: the recorded
// original name when known, otherwise the stored name with any
// "{field}-{millis}-" prefix stripped.
func DownloadName(stored, original string) string {
	if original != "" {
		return original
	}
	if m := generatedName.FindStringSubmatch(stored); m != nil {
		return m[1]
	}
	return stored
}
