package services

import (
	"fmt"
	"sync"

	"github.com/containrrr/shoutrrr"

	"github.com/cafirm/website/backend/internal/logger"
)

// Notification event types.
const (
	EventJobApplication = "job_application"
	EventContact        = "contact_submission"
)

// NotificationService alerts site staff about new submissions through
// shoutrrr service URLs (email, Slack, Teams, generic webhooks, ...).
type NotificationService struct {
	urls []string
	send func(url, message string) error
	wg   sync.WaitGroup
}

func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{urls: urls, send: shoutrrr.Send}
}

// Enabled reports whether any destination is configured.
func (s *NotificationService) Enabled() bool {
	return s != nil && len(s.urls) > 0
}

// Notify delivers a message to every configured destination without blocking
// the caller. Delivery failures are logged and otherwise ignored.
func (s *NotificationService) Notify(eventType, title, message string) {
	if !s.Enabled() {
		return
	}
	msg := fmt.Sprintf("%s\n\n%s", title, message)
	for _, url := range s.urls {
		s.wg.Add(1)
		go func(url string) {
			defer s.wg.Done()
			if err := s.send(url, msg); err != nil {
				logger.Log().WithField("event", eventType).WithError(err).Warn("failed to send notification")
			}
		}(url)
	}
}

// Wait blocks until in-flight deliveries finish.
func (s *NotificationService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}
