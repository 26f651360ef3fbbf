package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	snapshotLockName    = "dashboard_snapshot"
	snapshotLockTTL     = 6 * time.Hour
	DefaultHistoryLimit = 14
	MaxHistoryLimit     = 90
)

// SnapshotService stores a daily copy of every active user's dashboard.
type SnapshotService struct {
	db            *gorm.DB
	dashboard     *DashboardService
	queue         TaskQueue
	cronScheduler *cron.Cron
	instance      string
	now           func() time.Time
}

func NewSnapshotService(db *gorm.DB, dashboard *DashboardService, queue TaskQueue) *SnapshotService {
	instance, err := os.Hostname()
	if err != nil || instance == "" {
		instance = "mindmate"
	}
	return &SnapshotService{
		db:        db,
		dashboard: dashboard,
		queue:     queue,
		instance:  instance,
		now:       time.Now,
	}
}

// StartScheduler runs a snapshot pass on the given cron spec.
func (s *SnapshotService) StartScheduler(spec string) error {
	s.cronScheduler = cron.New(cron.WithLocation(s.dashboard.Location()))
	_, err := s.cronScheduler.AddFunc(spec, func() {
		if _, err := s.RunPass(context.Background()); err != nil {
			logger.Error().Err(err).Msg("[Snapshot] pass failed")
		}
	})
	if err != nil {
		return err
	}
	s.cronScheduler.Start()
	logger.Infof("[Snapshot] Scheduler started (cron: %s)", spec)
	return nil
}

func (s *SnapshotService) StopScheduler() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}

// RunPass enqueues one snapshot task per active user, at most once per day
// across all instances. It returns the number of tasks enqueued.
func (s *SnapshotService) RunPass(ctx context.Context) (int, error) {
	now := s.now()
	runKey := now.In(s.dashboard.Location()).Format("2006-01-02")

	acquired, err := s.acquireLock(ctx, runKey, now)
	if err != nil {
		return 0, err
	}
	if !acquired {
		logger.Infof("[Snapshot] pass %s already taken by another instance", runKey)
		return 0, nil
	}

	var userIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}

	enqueued := 0
	for _, id := range userIDs {
		task := &SnapshotTask{UserID: id, RunKey: runKey, At: now.Unix()}
		if err := s.queue.Enqueue(task); err != nil {
			logger.Warn().Err(err).Uint("user_id", id).Msg("[Snapshot] enqueue failed")
			continue
		}
		enqueued++
	}

	logger.Infof("[Snapshot] pass %s enqueued %d/%d users", runKey, enqueued, len(userIDs))
	return enqueued, nil
}

// acquireLock claims the run key, taking over a lock whose holder let it expire.
func (s *SnapshotService) acquireLock(ctx context.Context, runKey string, now time.Time) (bool, error) {
	lock := models.SchedulerLock{
		LockName:  snapshotLockName,
		LockKey:   runKey,
		LockedBy:  s.instance,
		LockedAt:  now,
		ExpiresAt: now.Add(snapshotLockTTL),
	}
	if err := s.db.WithContext(ctx).Create(&lock).Error; err == nil {
		return true, nil
	}

	res := s.db.WithContext(ctx).Model(&models.SchedulerLock{}).
		Where("lock_name = ? AND lock_key = ? AND expires_at < ?", snapshotLockName, runKey, now).
		Updates(map[string]interface{}{
			"locked_by":  s.instance,
			"locked_at":  now,
			"expires_at": now.Add(snapshotLockTTL),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ProcessTask computes and stores the snapshot a task describes.
func (s *SnapshotService) ProcessTask(ctx context.Context, task *SnapshotTask) error {
	at := s.now()
	if task.At > 0 {
		at = time.Unix(task.At, 0)
	}

	// at may lie in the past after a retry, so the live cache is left alone
	payload, err := s.dashboard.Compute(ctx, task.UserID, at)
	if err != nil {
		return err
	}
	_, err = s.Save(ctx, task.UserID, payload, at)
	return err
}

func (s *SnapshotService) Save(ctx context.Context, userID uint, payload *DashboardPayload, at time.Time) (*models.DashboardSnapshot, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	snap := models.DashboardSnapshot{
		UserID:            userID,
		ProductivityScore: payload.Stats.ProductivityScore,
		Consistency:       payload.Stats.Consistency,
		StressLevel:       payload.Analytics.StressLevel,
		CompletionRate:    payload.Analytics.CompletionRate,
		ImprovementRate:   payload.Analytics.ImprovementRate,
		Payload:           string(data),
		CreatedAt:         at,
	}
	if err := s.db.WithContext(ctx).Create(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// History lists a user's snapshots, newest first. limit falls back to
// DefaultHistoryLimit when not positive and is capped at MaxHistoryLimit.
func (s *SnapshotService) History(ctx context.Context, userID uint, limit int) ([]models.DashboardSnapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	snaps := make([]models.DashboardSnapshot, 0, limit)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// Latest returns the most recent snapshot or ErrSnapshotNotFound.
func (s *SnapshotService) Latest(ctx context.Context, userID uint) (*models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

var ErrSnapshotNotFound = errors.New("snapshot not found")
