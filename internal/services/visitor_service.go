package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

// LoopbackIP is recorded when the client address cannot be determined.
const LoopbackIP = "127.0.0.1"

// VisitorService records page views and aggregates them per day.
type VisitorService struct {
	store
}

func NewVisitorService(db *gorm.DB, timeout time.Duration) *VisitorService {
	return &VisitorService{store: newStore(db, timeout)}
}

// Track appends one page view.
func (s *VisitorService) Track(ctx context.Context, pageURL, ip, userAgent string) error {
	if ip == "" {
		ip = LoopbackIP
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	visit := &models.SiteVisit{PageURL: pageURL, IPAddress: ip, UserAgent: userAgent}
	if err := db.Create(visit).Error; err != nil {
		return fmt.Errorf("track visit: %w", err)
	}
	return nil
}

// Stats returns total and distinct-IP visit counts per calendar day, most
// recent day first.
func (s *VisitorService) Stats(ctx context.Context) ([]models.VisitStat, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	day := "DATE(visit_date)"
	if db.Dialector.Name() == "postgres" {
		day = "TO_CHAR(DATE(visit_date), 'YYYY-MM-DD')"
	}

	stats := make([]models.VisitStat, 0)
	err := db.Model(&models.SiteVisit{}).
		Select(day + " AS date, COUNT(*) AS total_visits, COUNT(DISTINCT ip_address) AS unique_visitors").
		Group(day).
		Order("date desc").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate visits: %w", err)
	}
	return stats, nil
}
