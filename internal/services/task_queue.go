package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/mindmatestudy/backend/internal/config"
	"github.com/mindmatestudy/backend/pkg/logger"
)

const (
	TaskTypeDashboardSnapshot = "dashboard:snapshot"
)

// SnapshotTask asks for one user's dashboard to be computed and stored.
type SnapshotTask struct {
	UserID uint   `json:"user_id"`
	RunKey string `json:"run_key"` // YYYY-MM-DD of the scheduled pass
	At     int64  `json:"at"`      // unix seconds used as "now"
}

// TaskQueue defines the interface for snapshot task processing
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *SnapshotTask) error
	// IsAsync returns true if queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalTaskQueue TaskQueue
	taskQueueOnce   sync.Once
)

// InitTaskQueue initializes the global task queue based on config
func InitTaskQueue(cfg *config.Config) TaskQueue {
	taskQueueOnce.Do(func() {
		globalTaskQueue = NewTaskQueue(cfg)
	})
	return globalTaskQueue
}

// NewTaskQueue picks the asynq queue when Redis is enabled and reachable.
func NewTaskQueue(cfg *config.Config) TaskQueue {
	if !cfg.Redis.Enabled {
		logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
		return NewSyncQueue()
	}
	queue, err := NewAsyncQueue(&cfg.Redis)
	if err != nil {
		logger.Warnf("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
		return NewSyncQueue()
	}
	logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
	return queue
}

func redisClientOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := redisClientOpt(cfg)
	client := asynq.NewClient(redisOpt)

	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// NewSnapshotTask encodes a snapshot task for asynq.
func NewSnapshotTask(task *SnapshotTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDashboardSnapshot, payload), nil
}

func (q *AsyncQueue) Enqueue(task *SnapshotTask) error {
	t, err := NewSnapshotTask(task)
	if err != nil {
		return err
	}

	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.TaskID(snapshotTaskID(task)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Uint("user_id", task.UserID).Msg("[AsyncQueue] snapshot enqueued")
	return nil
}

// snapshotTaskID makes a repeated pass for the same user and day a no-op.
func snapshotTaskID(task *SnapshotTask) string {
	return TaskTypeDashboardSnapshot + ":" + task.RunKey + ":" + strconv.FormatUint(uint64(task.UserID), 10)
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue with in-process processing (no Redis)
type SyncQueue struct {
	processor func(context.Context, *SnapshotTask) error
	wg        sync.WaitGroup
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function to process tasks
func (q *SyncQueue) SetProcessor(processor func(context.Context, *SnapshotTask) error) {
	q.processor = processor
}

// Enqueue processes the task in a background goroutine
func (q *SyncQueue) Enqueue(task *SnapshotTask) error {
	if q.processor == nil {
		logger.Warnf("[SyncQueue] no processor set, task for user %d dropped", task.UserID)
		return nil
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := q.processor(context.Background(), task); err != nil {
			logger.Warn().Err(err).Uint("user_id", task.UserID).Msg("[SyncQueue] task processing failed")
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

// Close waits for tasks already handed to the processor.
func (q *SyncQueue) Close() error {
	q.wg.Wait()
	return nil
}
