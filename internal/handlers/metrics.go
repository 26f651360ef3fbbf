package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/internal/services"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db    *gorm.DB
	queue services.TaskQueue
}

func NewMetricsHandler(db *gorm.DB, queue services.TaskQueue) *MetricsHandler {
	return &MetricsHandler{db: db, queue: queue}
}

// Metrics returns Prometheus-compatible text format metrics.
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "mindmate_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "mindmate_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "mindmate_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))
	writeGauge(&b, "mindmate_gc_runs_total", "Total number of GC runs", float64(m.NumGC))

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "mindmate_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "mindmate_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		}
	}

	queueAsync := 0.0
	if h.queue != nil && h.queue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "mindmate_queue_async_enabled", "Whether the snapshot queue runs on Redis (1=yes, 0=no)", queueAsync)

	if h.db != nil {
		ctx := c.Request.Context()
		since := time.Now().Add(-24 * time.Hour)
		counts := []struct {
			name, help string
			query      *gorm.DB
		}{
			{"mindmate_users_active", "Number of active users", h.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)},
			{"mindmate_therapists_total", "Number of therapists and mentors", h.db.WithContext(ctx).Model(&models.Therapist{})},
			{"mindmate_chat_analyses_24h", "Chat analyses created in the last 24 hours", h.db.WithContext(ctx).Model(&models.ChatAnalysis{}).Where("created_at >= ?", since)},
			{"mindmate_appointments_24h", "Appointments created in the last 24 hours", h.db.WithContext(ctx).Model(&models.Appointment{}).Where("created_at >= ?", since)},
			{"mindmate_interview_reports_24h", "Interview reports created in the last 24 hours", h.db.WithContext(ctx).Model(&models.InterviewReport{}).Where("created_at >= ?", since)},
			{"mindmate_dashboard_snapshots_total", "Stored dashboard snapshots", h.db.WithContext(ctx).Model(&models.DashboardSnapshot{})},
		}
		for _, q := range counts {
			var n int64
			if err := q.query.Count(&n).Error; err == nil {
				writeGauge(&b, q.name, q.help, float64(n))
			}
		}
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
