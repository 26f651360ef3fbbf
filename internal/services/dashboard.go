package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultWindowDays = 7

// Names used in DataFetchError.Source.
const (
	SourceChatAnalyses     = "chat_analyses"
	SourceAppointments     = "appointments"
	SourceInterviewReports = "interview_reports"
	SourceUserProfile      = "user_profile"
)

// DashboardSource reads the per-user records a dashboard is built from.
// Every Fetch* returning a list only includes records created at or after since.
type DashboardSource interface {
	FetchChatAnalyses(ctx context.Context, userID uint, since time.Time) ([]models.ChatAnalysis, error)
	FetchAppointments(ctx context.Context, userID uint, since time.Time) ([]models.Appointment, error)
	FetchInterviewReports(ctx context.Context, userID uint, since time.Time) ([]models.InterviewReport, error)
	// FetchUserProfile returns nil, nil when the user does not exist.
	FetchUserProfile(ctx context.Context, userID uint) (*models.User, error)
}

// DataFetchError reports which source failed while collecting dashboard data.
type DataFetchError struct {
	Source string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

type DashboardService struct {
	source     DashboardSource
	cache      *DashboardCache
	loc        *time.Location
	windowDays int
}

type DashboardOption func(*DashboardService)

// WithLocation sets the zone used to bucket records into days and weekdays.
func WithLocation(loc *time.Location) DashboardOption {
	return func(s *DashboardService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithWindowDays(days int) DashboardOption {
	return func(s *DashboardService) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

func WithCache(cache *DashboardCache) DashboardOption {
	return func(s *DashboardService) {
		s.cache = cache
	}
}

func NewDashboardService(source DashboardSource, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		source:     source,
		loc:        time.Local,
		windowDays: defaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone dashboards are bucketed in.
func (s *DashboardService) Location() *time.Location {
	return s.loc
}

// GetDashboard builds the dashboard of userID from records created in the
// window ending at now. The payload is served from cache when one is configured.
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint, now time.Time) (*DashboardPayload, error) {
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, userID); ok {
			return payload, nil
		}
	}
	return s.Refresh(ctx, userID, now)
}

// Refresh recomputes the dashboard, skipping the cache read but updating the cache.
// A failed recomputation drops the cached payload.
func (s *DashboardService) Refresh(ctx context.Context, userID uint, now time.Time) (*DashboardPayload, error) {
	payload, err := s.Compute(ctx, userID, now)
	if err != nil {
		if s.cache != nil {
			s.cache.Invalidate(ctx, userID)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, payload)
	}
	return payload, nil
}

// Compute builds the dashboard for the window ending at now without touching the cache.
func (s *DashboardService) Compute(ctx context.Context, userID uint, now time.Time) (*DashboardPayload, error) {
	snap, err := s.collect(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return ComputeDashboard(*snap, s.loc), nil
}

// collect issues the four reads concurrently and waits for all of them.
// The first failure cancels the others.
func (s *DashboardService) collect(ctx context.Context, userID uint, now time.Time) (*DashboardSnapshotInput, error) {
	since := now.Add(-time.Duration(s.windowDays) * 24 * time.Hour)
	snap := &DashboardSnapshotInput{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.FetchChatAnalyses(gctx, userID, since)
		if err != nil {
			return &DataFetchError{Source: SourceChatAnalyses, Err: err}
		}
		snap.ChatAnalyses = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.FetchAppointments(gctx, userID, since)
		if err != nil {
			return &DataFetchError{Source: SourceAppointments, Err: err}
		}
		snap.Appointments = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.source.FetchInterviewReports(gctx, userID, since)
		if err != nil {
			return &DataFetchError{Source: SourceInterviewReports, Err: err}
		}
		snap.InterviewReports = rows
		return nil
	})
	g.Go(func() error {
		user, err := s.source.FetchUserProfile(gctx, userID)
		if err != nil {
			return &DataFetchError{Source: SourceUserProfile, Err: err}
		}
		snap.User = user
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("[Dashboard] fetch failed")
		return nil, err
	}
	return snap, nil
}
