package services

import (
	"errors"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
	"gorm.io/gorm"
)

var ErrInvalidSlot = errors.New("invalid slot: date must be YYYY-MM-DD and times HH:MM with start before end")

type SlotService struct {
	db *gorm.DB
}

func NewSlotService(db *gorm.DB) *SlotService {
	return &SlotService{db: db}
}

type CreateSlotRequest struct {
	TherapistID uint   `json:"therapist_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
}

func (r *CreateSlotRequest) valid() bool {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return false
	}
	start, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return false
	}
	return start.Before(end)
}

func (s *SlotService) Create(req *CreateSlotRequest) (*models.Slot, error) {
	if !req.valid() {
		return nil, ErrInvalidSlot
	}

	var count int64
	if err := s.db.Model(&models.Therapist{}).Where("id = ?", req.TherapistID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTherapistNotFound
	}

	slot := models.Slot{
		TherapistID: req.TherapistID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := s.db.Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByTherapist orders slots chronologically; zero-padded strings sort correctly.
func (s *SlotService) ListByTherapist(therapistID uint) ([]models.Slot, error) {
	slots := []models.Slot{}
	err := s.db.Where("therapist_id = ?", therapistID).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
