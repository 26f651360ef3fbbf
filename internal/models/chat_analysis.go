package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// EmotionList is a set of emotion labels stored as a comma-separated column.
type EmotionList []string

func (EmotionList) GormDataType() string { return "text" }

func (l EmotionList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *EmotionList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = EmotionList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EmotionList", src)
	}

	out := EmotionList{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

// ChatAnalysis is the emotion analysis produced for one chat conversation.
type ChatAnalysis struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	UserID           uint        `gorm:"index;not null" json:"user_id"`
	DominantEmotions EmotionList `json:"dominant_emotions"`
	Summary          string      `gorm:"type:text" json:"summary"`
	CreatedAt        time.Time   `gorm:"index" json:"created_at"`
}

func (ChatAnalysis) TableName() string { return "chat_analyses" }
