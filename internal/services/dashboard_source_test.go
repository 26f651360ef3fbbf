package services

import (
	"context"
	"testing"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
)

func TestGormDashboardSource_WindowAndOwnership(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)
	since := now.AddDate(0, 0, -7)

	rows := []interface{}{
		&models.ChatAnalysis{UserID: 1, DominantEmotions: models.EmotionList{"happy"}, CreatedAt: now.Add(-time.Hour)},
		&models.ChatAnalysis{UserID: 1, DominantEmotions: models.EmotionList{"sad"}, CreatedAt: now.AddDate(0, 0, -8)},
		&models.ChatAnalysis{UserID: 2, DominantEmotions: models.EmotionList{"fear"}, CreatedAt: now},
		&models.Appointment{UserID: 1, IsAttended: true, CreatedAt: now.AddDate(0, 0, -2)},
		&models.Appointment{UserID: 1, CreatedAt: now.AddDate(0, 0, -1)},
		&models.Appointment{UserID: 1, CreatedAt: now.AddDate(0, 0, -30)},
		&models.InterviewReport{UserID: 1, Confidence: pct(60), CreatedAt: now.AddDate(0, 0, -1)},
		&models.InterviewReport{UserID: 1, Confidence: pct(40), CreatedAt: now.AddDate(0, 0, -3)},
	}
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	src := NewGormDashboardSource(db)
	ctx := context.Background()

	chats, err := src.FetchChatAnalyses(ctx, 1, since)
	if err != nil {
		t.Fatalf("FetchChatAnalyses() error = %v", err)
	}
	if len(chats) != 1 || chats[0].DominantEmotions[0] != "happy" {
		t.Errorf("chats = %+v, expected only the recent one of user 1", chats)
	}

	appts, err := src.FetchAppointments(ctx, 1, since)
	if err != nil {
		t.Fatalf("FetchAppointments() error = %v", err)
	}
	if len(appts) != 2 || !appts[0].IsAttended {
		t.Errorf("appointments = %+v, expected two ordered oldest first", appts)
	}

	interviews, err := src.FetchInterviewReports(ctx, 1, since)
	if err != nil {
		t.Fatalf("FetchInterviewReports() error = %v", err)
	}
	if len(interviews) != 2 || *interviews[0].Confidence != 40 {
		t.Errorf("interviews = %+v, expected ascending by created_at", interviews)
	}
}

func TestGormDashboardSource_UserProfile(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Name: "Asha", Email: "asha@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	src := NewGormDashboardSource(db)

	got, err := src.FetchUserProfile(context.Background(), user.ID)
	if err != nil || got == nil || got.Email != "asha@example.com" {
		t.Errorf("FetchUserProfile() = %+v, %v", got, err)
	}

	missing, err := src.FetchUserProfile(context.Background(), 4242)
	if err != nil {
		t.Errorf("missing user error = %v, expected nil", err)
	}
	if missing != nil {
		t.Errorf("missing user = %+v, expected nil", missing)
	}
}

func TestGormDashboardSource_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	for i, c := range []float64{40, 70} {
		r := models.InterviewReport{UserID: 3, Confidence: pct(c), Duration: 20, CreatedAt: now.AddDate(0, 0, i-2)}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewDashboardService(NewGormDashboardSource(db))
	p, err := svc.GetDashboard(context.Background(), 3, now)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if p.Stats.Interviews != 2 || p.Analytics.ImprovementRate != 75 || p.Analytics.AvgSessionTime != "20min" {
		t.Errorf("payload = %+v %+v", p.Stats, p.Analytics)
	}
}

func TestGormDashboardSource_CanceledContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDashboardService(NewGormDashboardSource(db))
	if _, err := svc.GetDashboard(ctx, 1, time.Now()); err == nil {
		t.Error("GetDashboard() with canceled context should fail")
	}
}
