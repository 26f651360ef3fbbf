package models

import "time"

// DashboardSnapshot stores a computed dashboard for history charts.
type DashboardSnapshot struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	ProductivityScore int       `json:"productivity_score"`
	Consistency       int       `json:"consistency"`
	StressLevel       int       `json:"stress_level"`
	CompletionRate    int       `json:"completion_rate"`
	ImprovementRate   int       `json:"improvement_rate"`
	Payload           string    `gorm:"type:text" json:"payload"` // full dashboard JSON
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
}

func (DashboardSnapshot) TableName() string { return "dashboard_snapshots" }
