package models

import "time"

const (
	ExpressionPositive = "positive"
	ExpressionNegative = "negative"
	ExpressionNeutral  = "neutral"
)

// InterviewReport is the analysis of one mock interview session.
type InterviewReport struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"index;not null" json:"user_id"`
	Duration            float64   `json:"duration"`   // minutes
	Confidence          *float64  `json:"confidence"` // 0-100, nil when the analyzer produced none
	Expression          string    `gorm:"size:20" json:"expression"`
	AverageResponseTime float64   `json:"average_response_time"` // seconds
	QuestionsAsked      int       `json:"questions_asked"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
}

func (InterviewReport) TableName() string { return "interview_reports" }
