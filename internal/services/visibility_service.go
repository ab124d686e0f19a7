package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

// VisibilityService toggles is_active on any archivable resource.
type VisibilityService struct {
	store
}

func NewVisibilityService(db *gorm.DB, timeout time.Duration) *VisibilityService {
	return &VisibilityService{store: newStore(db, timeout)}
}

// SetActive sets the visibility of one record. Unknown resource types are
// rejected before any statement is issued.
func (s *VisibilityService) SetActive(ctx context.Context, rt models.ResourceType, id uint, active bool) error {
	if rt.Table() == "" {
		return models.ErrUnknownResourceType
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	return setActive(db, rt, id, active)
}
