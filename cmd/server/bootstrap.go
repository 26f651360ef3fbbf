package main

import (
	"context"
	"time"

	"github.com/mindmatestudy/backend/internal/config"
	"github.com/mindmatestudy/backend/internal/handlers"
	"github.com/mindmatestudy/backend/internal/middleware"
	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/internal/services"
	"github.com/mindmatestudy/backend/internal/utils"
	"github.com/mindmatestudy/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	redis           *redis.Client
	taskQueue       services.TaskQueue
	worker          *services.Worker
	snapshotService *services.SnapshotService
	authLimiter     *middleware.RateLimiter

	authHandler      *handlers.AuthHandler
	dashboardHandler *handlers.DashboardHandler
	therapistHandler *handlers.TherapistHandler
	slotHandler      *handlers.SlotHandler
	healthHandler    *handlers.HealthHandler
	metricsHandler   *handlers.MetricsHandler
}

// bootstrap initializes all application dependencies: database, cache, queue, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()

	loc := time.Local
	if cfg.Dashboard.Timezone != "" {
		l, err := time.LoadLocation(cfg.Dashboard.Timezone)
		if err != nil {
			logger.Warn().Err(err).Str("timezone", cfg.Dashboard.Timezone).Msg("Unknown dashboard timezone, using server local time")
		} else {
			loc = l
		}
	}

	opts := []services.DashboardOption{
		services.WithLocation(loc),
		services.WithWindowDays(cfg.Dashboard.WindowDays),
	}

	// Dashboard cache (best effort, only with Redis)
	var (
		rdb   *redis.Client
		cache *services.DashboardCache
	)
	if cfg.Redis.Enabled && cfg.Dashboard.CacheTTLSeconds > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := services.NewRedisClient(ctx, &cfg.Redis)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("Dashboard cache disabled")
		} else {
			rdb = client
			cache = services.NewDashboardCache(rdb, time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second)
			opts = append(opts, services.WithCache(cache))
		}
	}

	dashboardService := services.NewDashboardService(services.NewGormDashboardSource(db), opts...)

	// Task queue uses Redis if enabled, otherwise sync mode
	taskQueue := services.InitTaskQueue(cfg)
	snapshotService := services.NewSnapshotService(db, dashboardService, taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(snapshotService.ProcessTask)
	}

	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(snapshotService.ProcessTask)
			if err := worker.Start(); err != nil {
				logger.Error().Err(err).Msg("Failed to start worker")
			}
		}
	}

	if cfg.Dashboard.SnapshotEnabled {
		if err := snapshotService.StartScheduler(cfg.Dashboard.SnapshotCron); err != nil {
			logger.Error().Err(err).Str("cron", cfg.Dashboard.SnapshotCron).Msg("Failed to start snapshot scheduler")
		}
	}

	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		redis:            rdb,
		taskQueue:        taskQueue,
		worker:           worker,
		snapshotService:  snapshotService,
		authLimiter:      middleware.NewRateLimiter(5, 10),
		authHandler:      handlers.NewAuthHandler(authService),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService, snapshotService),
		therapistHandler: handlers.NewTherapistHandler(services.NewTherapistService(db, &cfg.JWT)),
		slotHandler:      handlers.NewSlotHandler(services.NewSlotService(db)),
		healthHandler:    handlers.NewHealthHandler(db, taskQueue, cache),
		metricsHandler:   handlers.NewMetricsHandler(db, taskQueue),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.snapshotService.StopScheduler()
	logger.Info().Msg("Snapshot scheduler stopped")

	s.authLimiter.Stop()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}
