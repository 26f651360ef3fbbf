package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mindmatestudy/backend/internal/config"
	"github.com/mindmatestudy/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const dashboardCachePrefix = "mindmate:dashboard:"

// DashboardCache keeps computed payloads in Redis for a short TTL.
// Errors are logged and reported as misses so the caller always recomputes.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to Redis and pings it once.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func dashboardCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", dashboardCachePrefix, userID)
}

func (c *DashboardCache) Get(ctx context.Context, userID uint) (*DashboardPayload, bool) {
	data, err := c.rdb.Get(ctx, dashboardCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("[DashboardCache] read failed")
		return nil, false
	}

	var payload DashboardPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("[DashboardCache] corrupt entry")
		return nil, false
	}
	return &payload, true
}

func (c *DashboardCache) Set(ctx context.Context, userID uint, payload *DashboardPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn().Err(err).Msg("[DashboardCache] marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, dashboardCacheKey(userID), data, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("[DashboardCache] write failed")
	}
}

func (c *DashboardCache) Invalidate(ctx context.Context, userID uint) {
	if err := c.rdb.Del(ctx, dashboardCacheKey(userID)).Err(); err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("[DashboardCache] delete failed")
	}
}

// Ping reports whether Redis answers.
func (c *DashboardCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
