package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog is a published article. Unlike the other archivable records it can
// also be permanently deleted by an admin.
type Blog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Author      string    `json:"author" gorm:"not null"`
	ImageURL    *string   `json:"image_url"`
	DocumentURL *string   `json:"document_url"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (Blog) TableName() string { return "blogs" }

func (Blog) Resource() ResourceType { return ResourceBlogs }

func (Blog) AllowsHardDelete() {}

// BeforeCreate guarantees new posts start out visible.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	b.IsActive = true
	return nil
}

// Audited blog fields, in the order edits are logged.
const (
	BlogFieldTitle   = "title"
	BlogFieldContent = "content"
	BlogFieldAuthor  = "author"
)

// BlogSnapshot holds the audited fields of a blog at one point in time.
type BlogSnapshot struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Snapshot captures the audited fields of b.
func (b Blog) Snapshot() BlogSnapshot {
	return BlogSnapshot{Title: b.Title, Content: b.Content, Author: b.Author}
}

// Changes returns one edit log entry per audited field that differs between
// old and s. Unchanged fields produce nothing.
func (s BlogSnapshot) Changes(blogID uint, old BlogSnapshot) []BlogEditLog {
	pairs := []struct {
		field    string
		old, new string
	}{
		{BlogFieldTitle, old.Title, s.Title},
		{BlogFieldContent, old.Content, s.Content},
		{BlogFieldAuthor, old.Author, s.Author},
	}

	var logs []BlogEditLog
	for _, p := range pairs {
		if p.old == p.new {
			continue
		}
		logs = append(logs, BlogEditLog{
			BlogID:    blogID,
			FieldName: p.field,
			OldValue:  p.old,
			NewValue:  p.new,
		})
	}
	return logs
}

// BlogEditLog is an append-only record of one field change on a blog.
// Rows outlive the blog they describe.
type BlogEditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlogID    uint      `json:"blog_id" gorm:"not null;index"`
	FieldName string    `json:"field_name" gorm:"not null"`
	OldValue  string    `json:"old_value" gorm:"type:text"`
	NewValue  string    `json:"new_value" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

func (BlogEditLog) TableName() string { return "blog_edit_logs" }
