package models

import (
	"time"

	"gorm.io/gorm"
)

// JobApplication is a careers-page submission.
type JobApplication struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	PostAppliedFor        string    `json:"post_applied_for" gorm:"not null"`
	Name                  string    `json:"name" gorm:"not null"`
	Phone                 string    `json:"phone" gorm:"not null"`
	Email                 string    `json:"email" gorm:"not null;index"`
	Qualification         string    `json:"qualification" gorm:"not null"`
	YearOfQualification   int       `json:"year_of_qualification" gorm:"not null"`
	Address               string    `json:"address" gorm:"type:text;not null"`
	OtherDetails          *string   `json:"other_details" gorm:"type:text"`
	PreferredWorkLocation string    `json:"preferred_work_location" gorm:"not null"`
	ResumeFileName        *string   `json:"resume_file_name" gorm:"index"`
	ResumeOriginalName    *string   `json:"resume_original_name"`
	IsActive              bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt             time.Time `json:"created_at"`
}

func (JobApplication) TableName() string { return "job_applications" }

func (JobApplication) Resource() ResourceType { return ResourceApplications }

// BeforeCreate guarantees new applications start out visible.
func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	a.IsActive = true
	return nil
}
