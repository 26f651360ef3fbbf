package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mindmatestudy/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// unreachableCache points at a closed port so every call fails fast.
func unreachableCache() *DashboardCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewDashboardCache(rdb, time.Minute)
}

// recordingHook answers every command locally and remembers its name.
// GET always misses.
type recordingHook struct {
	mu   sync.Mutex
	cmds []string
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *recordingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		h.cmds = append(h.cmds, cmd.Name())
		h.mu.Unlock()
		if cmd.Name() == "get" {
			cmd.SetErr(redis.Nil)
		}
		return cmd.Err()
	}
}

func (h *recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *recordingHook) count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.cmds {
		if c == name {
			n++
		}
	}
	return n
}

func recordingCache() (*DashboardCache, *recordingHook) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	hook := &recordingHook{}
	rdb.AddHook(hook)
	return NewDashboardCache(rdb, time.Minute), hook
}

func TestDashboardCacheKey(t *testing.T) {
	if got := dashboardCacheKey(15); got != "mindmate:dashboard:15" {
		t.Errorf("dashboardCacheKey() = %q", got)
	}
}

func TestDashboardCache_ErrorsAreMisses(t *testing.T) {
	cache := unreachableCache()
	ctx := context.Background()

	cache.Set(ctx, 1, ComputeDashboard(DashboardSnapshotInput{}, time.UTC))
	if _, ok := cache.Get(ctx, 1); ok {
		t.Error("Get() against an unreachable Redis should miss")
	}
	cache.Invalidate(ctx, 1)
	if err := cache.Ping(ctx); err == nil {
		t.Error("Ping() should fail")
	}
}

func TestDashboardService_FallsBackWhenCacheDown(t *testing.T) {
	src := &fakeSource{}
	svc := NewDashboardService(src, WithCache(unreachableCache()))

	p, err := svc.GetDashboard(context.Background(), 1, refNow)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if p == nil || src.calls.Load() != 4 {
		t.Errorf("expected a computed payload from 4 source calls, got %d calls", src.calls.Load())
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Error("NewRedisClient() should fail when Redis is unreachable")
	}
}
