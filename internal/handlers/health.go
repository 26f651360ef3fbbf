package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the state of the database, queue and cache.
type HealthHandler struct {
	db    *gorm.DB
	queue services.TaskQueue
	cache *services.DashboardCache
}

func NewHealthHandler(db *gorm.DB, queue services.TaskQueue, cache *services.DashboardCache) *HealthHandler {
	return &HealthHandler{db: db, queue: queue, cache: cache}
}

// Liveness
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "mindmate"})
}

// CheckHealth returns the health status of all subsystems.
// GET /health/detail
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	overall := "healthy"
	status := http.StatusOK

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}
	if dbStatus != "ok" {
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	queueMode := "sync"
	if h.queue != nil && h.queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "mindmate",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"cache":      cacheStatus,
		},
	})
}
