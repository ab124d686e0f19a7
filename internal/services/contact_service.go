package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

// ContactService persists contact-form submissions.
type ContactService struct {
	store
}

func NewContactService(db *gorm.DB, timeout time.Duration) *ContactService {
	return &ContactService{store: newStore(db, timeout)}
}

func (s *ContactService) Create(ctx context.Context, sub *models.ContactSubmission) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if err := db.Create(sub).Error; err != nil {
		return fmt.Errorf("create contact submission: %w", err)
	}
	return nil
}

func (s *ContactService) ListActive(ctx context.Context) ([]models.ContactSubmission, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.ContactSubmission](db, true, "id desc")
}

func (s *ContactService) ListAll(ctx context.Context) ([]models.ContactSubmission, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.ContactSubmission](db, false, "id desc")
}

func (s *ContactService) Archive(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return setActive(db, models.ResourceContacts, id, false)
}
