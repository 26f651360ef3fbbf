package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TherapistTypeTherapist = "Therapist"
	TherapistTypeMentor    = "Mentor"
)

// Therapist is a therapist or mentor account offering bookable slots
type Therapist struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone          string         `gorm:"uniqueIndex;size:50;not null" json:"phone"`
	Password       string         `gorm:"size:255" json:"-"`
	VirtualFee     float64        `json:"virtual_fee"`
	Specialization string         `gorm:"size:200" json:"specialization"`
	Experience     int            `json:"experience"` // years
	Gender         string         `gorm:"size:20" json:"gender"`
	Type           string         `gorm:"size:20;index" json:"type"` // Therapist, Mentor
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Therapist) TableName() string { return "therapists" }

// Slot is an availability window of a therapist
type Slot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TherapistID uint      `gorm:"index;not null" json:"therapist_id"`
	Date        string    `gorm:"size:10;not null" json:"date"`      // YYYY-MM-DD
	StartTime   string    `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`
	IsBooked    bool      `gorm:"default:false" json:"is_booked"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Slot) TableName() string { return "slots" }
