package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
)

// Placeholder values shown until appointments are joined with real therapist and slot data.
const (
	placeholderTherapist = "Dr. Therapist"
	placeholderTime      = "14:30"
	placeholderCallType  = "Video Call"

	defaultConfidence = 50.0
	defaultDayMood    = 60
	defaultDayEnergy  = 70
	defaultDayFocus   = 75

	maxPerformanceEntries = 5
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var stressEmotions = map[string]bool{
	"sad":     true,
	"angry":   true,
	"fear":    true,
	"disgust": true,
}

var positiveEmotions = map[string]bool{
	"happy":   true,
	"neutral": true,
}

// DashboardSnapshotInput is the raw data one dashboard is computed from.
type DashboardSnapshotInput struct {
	ChatAnalyses     []models.ChatAnalysis
	Appointments     []models.Appointment
	InterviewReports []models.InterviewReport
	User             *models.User
}

type DashboardStats struct {
	TotalEvents       int `json:"totalEvents"`
	Interviews        int `json:"interviews"`
	Quizzes           int `json:"quizzes"`
	TherapySessions   int `json:"therapySessions"`
	ProductivityScore int `json:"productivityScore"`
	Consistency       int `json:"consistency"`
}

type DashboardAnalytics struct {
	AvgSessionTime  string `json:"avgSessionTime"`
	CompletionRate  int    `json:"completionRate"`
	ImprovementRate int    `json:"improvementRate"`
	StressLevel     int    `json:"stressLevel"`
}

type PerformancePoint struct {
	Week       string `json:"week"`
	Technical  int    `json:"technical"`
	Behavioral int    `json:"behavioral"`
	Cognitive  int    `json:"cognitive"`
}

type MoodPoint struct {
	Day    string `json:"day"`
	Mood   int    `json:"mood"`
	Energy int    `json:"energy"`
	Focus  int    `json:"focus"`
}

type SkillScore struct {
	Skill  string `json:"skill"`
	Score  int    `json:"score"`
	Target int    `json:"target"`
}

type AppointmentSummary struct {
	Therapist string `json:"therapist"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Trend       string `json:"trend"`
}

// DashboardPayload is the response body of GET /api/dashboard.
type DashboardPayload struct {
	Stats         DashboardStats       `json:"stats"`
	Analytics     DashboardAnalytics   `json:"analytics"`
	Performance   []PerformancePoint   `json:"performance"`
	MoodData      []MoodPoint          `json:"moodData"`
	SkillAnalysis []SkillScore         `json:"skillAnalysis"`
	Appointments  []AppointmentSummary `json:"appointments"`
	Insights      []Insight            `json:"insights"`
}

// ComputeDashboard reduces a snapshot to the dashboard payload. It never mutates
// the input and returns the same payload for the same snapshot and location.
// Day and weekday bucketing happens in loc; nil means time.Local.
func ComputeDashboard(in DashboardSnapshotInput, loc *time.Location) *DashboardPayload {
	if loc == nil {
		loc = time.Local
	}

	stress := StressLevel(in.ChatAnalyses)

	return &DashboardPayload{
		Stats: DashboardStats{
			TotalEvents:       len(in.Appointments) + len(in.InterviewReports) + len(in.ChatAnalyses),
			Interviews:        len(in.InterviewReports),
			Quizzes:           0,
			TherapySessions:   len(in.Appointments),
			ProductivityScore: ProductivityScore(len(in.InterviewReports), len(in.ChatAnalyses)),
			Consistency:       Consistency(in.Appointments, in.InterviewReports, loc),
		},
		Analytics: DashboardAnalytics{
			AvgSessionTime:  AvgSessionTime(in.InterviewReports),
			CompletionRate:  CompletionRate(in.Appointments),
			ImprovementRate: ImprovementRate(in.InterviewReports),
			StressLevel:     stress,
		},
		Performance:   Performance(in.InterviewReports),
		MoodData:      MoodByWeekday(in.ChatAnalyses, loc),
		SkillAnalysis: SkillAnalysis(in.InterviewReports),
		Appointments:  AppointmentSummaries(in.Appointments),
		Insights:      Insights(stress, len(in.Appointments), len(in.InterviewReports)),
	}
}

// roundHalfUp rounds .5 towards +Inf, the way browsers round chart values.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func confidenceOf(r models.InterviewReport) float64 {
	if r.Confidence == nil {
		return defaultConfidence
	}
	return *r.Confidence
}

func ProductivityScore(interviews, chats int) int {
	return min(interviews*10+min(chats*2, 30), 100)
}

// Consistency is the share of the last seven days with at least one
// appointment or interview, counted in loc.
func Consistency(appointments []models.Appointment, interviews []models.InterviewReport, loc *time.Location) int {
	days := make(map[string]struct{})
	for _, a := range appointments {
		days[a.CreatedAt.In(loc).Format("2006-01-02")] = struct{}{}
	}
	for _, r := range interviews {
		days[r.CreatedAt.In(loc).Format("2006-01-02")] = struct{}{}
	}
	return min(roundHalfUp(float64(len(days))/7*100), 100)
}

func AvgSessionTime(interviews []models.InterviewReport) string {
	if len(interviews) == 0 {
		return "0min"
	}
	var total float64
	for _, r := range interviews {
		total += r.Duration
	}
	return fmt.Sprintf("%dmin", roundHalfUp(total/float64(len(interviews))))
}

func CompletionRate(appointments []models.Appointment) int {
	if len(appointments) == 0 {
		return 0
	}
	attended := 0
	for _, a := range appointments {
		if a.IsAttended {
			attended++
		}
	}
	return roundHalfUp(float64(attended) / float64(len(appointments)) * 100)
}

// ImprovementRate compares the confidence of the oldest and newest interview.
// A zero starting confidence yields 0.
func ImprovementRate(interviews []models.InterviewReport) int {
	if len(interviews) < 2 {
		return 0
	}
	sorted := make([]models.InterviewReport, len(interviews))
	copy(sorted, interviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	first := confidenceOf(sorted[0])
	last := confidenceOf(sorted[len(sorted)-1])
	if first == 0 {
		return 0
	}
	return max(0, roundHalfUp((last-first)/first*100))
}

// StressLevel is the share of stress emotions among all labels, 50 when nothing was labelled.
func StressLevel(chats []models.ChatAnalysis) int {
	total, stressed := 0, 0
	for _, c := range chats {
		for _, e := range c.DominantEmotions {
			total++
			if stressEmotions[e] {
				stressed++
			}
		}
	}
	if total == 0 {
		return 50
	}
	return roundHalfUp(float64(stressed) / float64(total) * 100)
}

// Performance returns one point per interview in input order, keeping the last five.
func Performance(interviews []models.InterviewReport) []PerformancePoint {
	points := make([]PerformancePoint, 0, len(interviews))
	for i, r := range interviews {
		conf := confidenceOf(r)

		behavioral := conf
		switch r.Expression {
		case models.ExpressionPositive:
			behavioral += 20
		case models.ExpressionNegative:
			behavioral -= 15
		}

		cognitive := 50
		if r.AverageResponseTime < 5 {
			cognitive += 20
		}
		if r.Duration > 10 {
			cognitive += 15
		}

		points = append(points, PerformancePoint{
			Week:       fmt.Sprintf("W%d", i+1),
			Technical:  roundHalfUp(conf),
			Behavioral: clamp(roundHalfUp(behavioral), 0, 100),
			Cognitive:  clamp(cognitive, 0, 100),
		})
	}
	if len(points) > maxPerformanceEntries {
		points = points[len(points)-maxPerformanceEntries:]
	}
	return points
}

// MoodByWeekday scores each chat 80 when a happy or neutral label is present and
// 40 otherwise, then averages per weekday in loc. Always seven entries, Sun first.
func MoodByWeekday(chats []models.ChatAnalysis, loc *time.Location) []MoodPoint {
	var sums, counts [7]int
	for _, c := range chats {
		score := 40
		for _, e := range c.DominantEmotions {
			if positiveEmotions[e] {
				score = 80
				break
			}
		}
		day := c.CreatedAt.In(loc).Weekday()
		sums[day] += score
		counts[day]++
	}

	out := make([]MoodPoint, 7)
	for d := range out {
		mood := defaultDayMood
		if counts[d] > 0 {
			mood = roundHalfUp(float64(sums[d]) / float64(counts[d]))
		}
		out[d] = MoodPoint{Day: weekdayLabels[d], Mood: mood, Energy: defaultDayEnergy, Focus: defaultDayFocus}
	}
	return out
}

func baselineSkills() []SkillScore {
	return []SkillScore{
		{Skill: "Communication", Score: 50, Target: 85},
		{Skill: "Problem Solving", Score: 50, Target: 90},
		{Skill: "Adaptability", Score: 50, Target: 80},
		{Skill: "Confidence", Score: 50, Target: 90},
	}
}

// SkillAnalysis scores four skills from the most recent interview in input order.
func SkillAnalysis(interviews []models.InterviewReport) []SkillScore {
	if len(interviews) == 0 {
		return baselineSkills()
	}
	latest := interviews[len(interviews)-1]
	conf := roundHalfUp(confidenceOf(latest))

	problemSolving := 50
	if latest.QuestionsAsked > 5 {
		problemSolving += 20
	}
	if latest.Duration > 15 {
		problemSolving += 15
	}

	adaptability := 60
	if len(interviews) >= 2 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range interviews {
			c := confidenceOf(r)
			lo = math.Min(lo, c)
			hi = math.Max(hi, c)
		}
		adaptability = max(30, roundHalfUp(100-(hi-lo)*2))
	}

	return []SkillScore{
		{Skill: "Communication", Score: clamp(conf, 0, 100), Target: 85},
		{Skill: "Problem Solving", Score: min(problemSolving, 100), Target: 90},
		{Skill: "Adaptability", Score: clamp(adaptability, 0, 100), Target: 80},
		{Skill: "Confidence", Score: clamp(conf, 0, 100), Target: 90},
	}
}

func AppointmentSummaries(appointments []models.Appointment) []AppointmentSummary {
	out := make([]AppointmentSummary, 0, len(appointments))
	for _, a := range appointments {
		status := "upcoming"
		if a.IsAttended {
			status = "completed"
		}
		out = append(out, AppointmentSummary{
			Therapist: placeholderTherapist,
			Date:      a.CreatedAt.UTC().Format("2006-01-02"),
			Time:      placeholderTime,
			Type:      placeholderCallType,
			Status:    status,
		})
	}
	return out
}

// Insights derives the highlight cards. Low stress is reported as a positive mood trend.
func Insights(stressLevel, appointments, interviews int) []Insight {
	out := make([]Insight, 0, 2)
	if stressLevel < 30 {
		out = append(out, Insight{
			Title:       "Positive Mood Trend",
			Description: "Your mood analysis shows positive emotional patterns",
			Impact:      "high",
			Trend:       "up",
		})
	}
	if appointments+interviews >= 5 {
		out = append(out, Insight{
			Title:       "Great Consistency",
			Description: "You've maintained regular practice sessions",
			Impact:      "medium",
			Trend:       "up",
		})
	}
	return out
}
