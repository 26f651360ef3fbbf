package models

import "time"

// Appointment is a therapy or mentoring session booked by a user.
type Appointment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	TherapistID uint      `gorm:"index" json:"therapist_id"`
	SlotID      *uint     `json:"slot_id"`
	IsAttended  bool      `gorm:"default:false" json:"is_attended"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }
