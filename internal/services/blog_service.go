package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

var ErrBlogNotFound = errors.New("blog not found")

// BlogService persists blog posts and their edit history.
type BlogService struct {
	store
}

func NewBlogService(db *gorm.DB, timeout time.Duration) *BlogService {
	return &BlogService{store: newStore(db, timeout)}
}

func (s *BlogService) Create(ctx context.Context, blog *models.Blog) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if err := db.Create(blog).Error; err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// ListActive returns visible posts for the public site, newest first.
func (s *BlogService) ListActive(ctx context.Context) ([]models.Blog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.Blog](db, true, "created_at desc, id desc")
}

// ListAll returns every post including archived ones, newest first.
func (s *BlogService) ListAll(ctx context.Context) ([]models.Blog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.Blog](db, false, "created_at desc, id desc")
}

func (s *BlogService) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return findBlog(db, id)
}

func findBlog(db *gorm.DB, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := db.First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// BlogUpdate carries an edit of a blog post.
type BlogUpdate struct {
	models.BlogSnapshot
	// Previous is the snapshot the editor started from. When nil the stored
	// row is used.
	Previous *models.BlogSnapshot
	// ImageURL and DocumentURL replace the stored media when non-nil.
	ImageURL    *string
	DocumentURL *string
}

// Update applies u to the blog and appends one edit log per changed audited
// field. The row update and the log inserts commit or roll back together.
func (s *BlogService) Update(ctx context.Context, id uint, u BlogUpdate) (*models.Blog, []models.BlogEditLog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var (
		blog *models.Blog
		logs []models.BlogEditLog
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := findBlog(tx, id)
		if err != nil {
			return err
		}

		previous := current.Snapshot()
		if u.Previous != nil {
			previous = *u.Previous
		}

		updates := map[string]interface{}{
			"title":   u.Title,
			"content": u.Content,
			"author":  u.Author,
		}
		if u.ImageURL != nil {
			updates["image_url"] = *u.ImageURL
		}
		if u.DocumentURL != nil {
			updates["document_url"] = *u.DocumentURL
		}
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return fmt.Errorf("update blog: %w", err)
		}

		logs = u.BlogSnapshot.Changes(id, previous)
		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return fmt.Errorf("insert blog edit logs: %w", err)
			}
		}

		blog, err = findBlog(tx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return blog, logs, nil
}

// Delete permanently removes a blog and resynchronizes the id sequence.
// Edit logs of the blog are kept. The removed row is returned so callers can
// clean up its media.
func (s *BlogService) Delete(ctx context.Context, id uint) (*models.Blog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var deleted *models.Blog
	err := db.Transaction(func(tx *gorm.DB) error {
		blog, err := findBlog(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(blog).Error; err != nil {
			return fmt.Errorf("delete blog: %w", err)
		}
		if err := resyncSequence(tx, blog.TableName()); err != nil {
			return fmt.Errorf("resync blog ids: %w", err)
		}
		deleted = blog
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// EditLogs returns the audit trail of one blog, newest first.
func (s *BlogService) EditLogs(ctx context.Context, blogID uint) ([]models.BlogEditLog, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	logs := make([]models.BlogEditLog, 0)
	if err := db.Where("blog_id = ?", blogID).Order("timestamp desc, id desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
