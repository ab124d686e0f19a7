package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactSubmission is a contact-form message.
type ContactSubmission struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;index"`
	Subject   string    `json:"subject" gorm:"not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }

func (ContactSubmission) Resource() ResourceType { return ResourceContacts }

// BeforeCreate guarantees new submissions start out visible.
func (s *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	s.IsActive = true
	return nil
}
