package services

import (
	"errors"
	"testing"

	"github.com/mindmatestudy/backend/internal/models"
)

func TestSlotService_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	therapist := models.Therapist{Name: "T", Email: "t@example.com", Phone: "1", Type: models.TherapistTypeTherapist}
	if err := db.Create(&therapist).Error; err != nil {
		t.Fatalf("create therapist: %v", err)
	}
	svc := NewSlotService(db)

	inputs := []CreateSlotRequest{
		{TherapistID: therapist.ID, Date: "2024-06-12", StartTime: "09:00", EndTime: "10:00"},
		{TherapistID: therapist.ID, Date: "2024-06-11", StartTime: "15:00", EndTime: "16:00"},
		{TherapistID: therapist.ID, Date: "2024-06-11", StartTime: "08:30", EndTime: "09:00"},
	}
	for i := range inputs {
		if _, err := svc.Create(&inputs[i]); err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}

	slots, err := svc.ListByTherapist(therapist.ID)
	if err != nil {
		t.Fatalf("ListByTherapist() error = %v", err)
	}
	expected := [][2]string{{"2024-06-11", "08:30"}, {"2024-06-11", "15:00"}, {"2024-06-12", "09:00"}}
	if len(slots) != len(expected) {
		t.Fatalf("len = %d, expected %d", len(slots), len(expected))
	}
	for i, s := range slots {
		if s.Date != expected[i][0] || s.StartTime != expected[i][1] {
			t.Errorf("slots[%d] = %s %s, expected %s %s", i, s.Date, s.StartTime, expected[i][0], expected[i][1])
		}
	}
}

func TestSlotService_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSlotService(db)

	tests := []struct {
		name     string
		req      CreateSlotRequest
		expected error
	}{
		{"bad date", CreateSlotRequest{TherapistID: 1, Date: "12/06/2024", StartTime: "09:00", EndTime: "10:00"}, ErrInvalidSlot},
		{"end before start", CreateSlotRequest{TherapistID: 1, Date: "2024-06-12", StartTime: "11:00", EndTime: "10:00"}, ErrInvalidSlot},
		{"unknown therapist", CreateSlotRequest{TherapistID: 77, Date: "2024-06-12", StartTime: "09:00", EndTime: "10:00"}, ErrTherapistNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(&tt.req); !errors.Is(err, tt.expected) {
				t.Errorf("Create() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestSlotService_ListEmpty(t *testing.T) {
	slots, err := NewSlotService(newTestDB(t)).ListByTherapist(5)
	if err != nil {
		t.Fatalf("ListByTherapist() error = %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Errorf("slots = %v, expected empty non-nil slice", slots)
	}
}
