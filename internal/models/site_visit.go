package models

import "time"

// SiteVisit is one recorded page view.
type SiteVisit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PageURL   string    `json:"page_url" gorm:"column:page_url;type:text"`
	IPAddress string    `json:"ip_address" gorm:"index"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	VisitDate time.Time `json:"visit_date" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (SiteVisit) TableName() string { return "site_visitors" }

// VisitStat aggregates the visits of one calendar day.
type VisitStat struct {
	Date           string `json:"date"`
	TotalVisits    int64  `json:"total_visits"`
	UniqueVisitors int64  `json:"unique_visitors"`
}
