package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

// ApplicationService persists job applications.
type ApplicationService struct {
	store
}

func NewApplicationService(db *gorm.DB, timeout time.Duration) *ApplicationService {
	return &ApplicationService{store: newStore(db, timeout)}
}

// Create inserts app and fills in its generated columns.
func (s *ApplicationService) Create(ctx context.Context, app *models.JobApplication) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if err := db.Create(app).Error; err != nil {
		return fmt.Errorf("create job application: %w", err)
	}
	return nil
}

// ListActive returns visible applications, newest first.
func (s *ApplicationService) ListActive(ctx context.Context) ([]models.JobApplication, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.JobApplication](db, true, "id desc")
}

// ListAll returns every application including archived ones, newest first.
func (s *ApplicationService) ListAll(ctx context.Context) ([]models.JobApplication, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	return listArchivable[models.JobApplication](db, false, "id desc")
}

// Archive hides an application from the active list.
func (s *ApplicationService) Archive(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return setActive(db, models.ResourceApplications, id, false)
}

// FindByResume returns the application that owns a stored résumé file.
func (s *ApplicationService) FindByResume(ctx context.Context, filename string) (*models.JobApplication, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var app models.JobApplication
	if err := db.Where("resume_file_name = ?", filename).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &app, nil
}
