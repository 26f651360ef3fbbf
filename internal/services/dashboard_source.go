package services

import (
	"context"
	"errors"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
	"gorm.io/gorm"
)

// GormDashboardSource reads dashboard records from the application database.
type GormDashboardSource struct {
	db *gorm.DB
}

func NewGormDashboardSource(db *gorm.DB) *GormDashboardSource {
	return &GormDashboardSource{db: db}
}

func (s *GormDashboardSource) window(ctx context.Context, userID uint, since time.Time) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC, id ASC")
}

func (s *GormDashboardSource) FetchChatAnalyses(ctx context.Context, userID uint, since time.Time) ([]models.ChatAnalysis, error) {
	var rows []models.ChatAnalysis
	if err := s.window(ctx, userID, since).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormDashboardSource) FetchAppointments(ctx context.Context, userID uint, since time.Time) ([]models.Appointment, error) {
	var rows []models.Appointment
	if err := s.window(ctx, userID, since).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormDashboardSource) FetchInterviewReports(ctx context.Context, userID uint, since time.Time) ([]models.InterviewReport, error) {
	var rows []models.InterviewReport
	if err := s.window(ctx, userID, since).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormDashboardSource) FetchUserProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
