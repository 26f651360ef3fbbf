package models

import (
	"testing"
	"time"

	"github.com/mindmatestudy/backend/internal/config"
	"gorm.io/gorm/logger"
)

func TestEmotionList_Value(t *testing.T) {
	v, err := EmotionList{"sad", "angry"}.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != "sad,angry" {
		t.Errorf("Value() = %v, expected %q", v, "sad,angry")
	}
}

func TestEmotionList_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected []string
	}{
		{"nil", nil, []string{}},
		{"empty string", "", []string{}},
		{"string", "happy,neutral", []string{"happy", "neutral"}},
		{"bytes", []byte("fear"), []string{"fear"}},
		{"spaces and blanks", " sad , ,disgust ", []string{"sad", "disgust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l EmotionList
			if err := l.Scan(tt.src); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if l == nil {
				t.Fatal("Scan() should never leave a nil list")
			}
			if len(l) != len(tt.expected) {
				t.Fatalf("Scan() = %v, expected %v", l, tt.expected)
			}
			for i := range l {
				if l[i] != tt.expected[i] {
					t.Errorf("Scan()[%d] = %q, expected %q", i, l[i], tt.expected[i])
				}
			}
		})
	}
}

func TestEmotionList_ScanUnsupported(t *testing.T) {
	var l EmotionList
	if err := l.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle", DSN: "x"}, logger.Silent)
	if err == nil {
		t.Error("Open() should reject unknown drivers")
	}
}

func TestMigrate_ChatAnalysisRoundTrip(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:models_test?mode=memory&cache=shared"}, logger.Silent)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	in := ChatAnalysis{UserID: 3, DominantEmotions: EmotionList{"happy", "fear"}, CreatedAt: time.Now()}
	if err := db.Create(&in).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var out ChatAnalysis
	if err := db.First(&out, in.ID).Error; err != nil {
		t.Fatalf("first: %v", err)
	}
	if len(out.DominantEmotions) != 2 || out.DominantEmotions[0] != "happy" || out.DominantEmotions[1] != "fear" {
		t.Errorf("DominantEmotions = %v, expected [happy fear]", out.DominantEmotions)
	}
}

func TestTableNames(t *testing.T) {
	names := map[string]string{
		User{}.TableName():              "users",
		Therapist{}.TableName():         "therapists",
		Slot{}.TableName():              "slots",
		Appointment{}.TableName():       "appointments",
		ChatAnalysis{}.TableName():      "chat_analyses",
		InterviewReport{}.TableName():   "interview_reports",
		DashboardSnapshot{}.TableName(): "dashboard_snapshots",
		SchedulerLock{}.TableName():     "scheduler_locks",
	}
	for got, expected := range names {
		if got != expected {
			t.Errorf("TableName() = %q, expected %q", got, expected)
		}
	}
}
