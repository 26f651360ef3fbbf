package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/middleware"
	"github.com/mindmatestudy/backend/internal/services"
	"github.com/mindmatestudy/backend/pkg/logger"
	"github.com/mindmatestudy/backend/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	snapshotService  *services.SnapshotService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService *services.DashboardService, snapshotService *services.SnapshotService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		snapshotService:  snapshotService,
		now:              time.Now,
	}
}

// GetDashboard returns the caller's dashboard as a bare JSON object.
// GET /api/dashboard[?refresh=true]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	var (
		payload *services.DashboardPayload
		err     error
	)
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		payload, err = h.dashboardService.Refresh(ctx, userID, h.now())
	} else {
		payload, err = h.dashboardService.GetDashboard(ctx, userID, h.now())
	}
	if err != nil {
		var fetchErr *services.DataFetchError
		if errors.As(err, &fetchErr) {
			logger.Error().Err(fetchErr.Err).Str("source", fetchErr.Source).Uint("user_id", userID).Msg("dashboard fetch failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payload)
}

// GetHistory lists stored snapshots of the caller, newest first.
// GET /api/dashboard/history?limit=14
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	limit := services.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snaps, err := h.snapshotService.History(c.Request.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		response.Error(c, response.NewServerError("failed to load dashboard history").WithCause(err))
		return
	}

	response.Success(c, gin.H{"items": snaps, "total": len(snaps)})
}

// GetLatest returns the caller's most recent snapshot.
// GET /api/dashboard/latest
func (h *DashboardHandler) GetLatest(c *gin.Context) {
	snap, err := h.snapshotService.Latest(c.Request.Context(), middleware.GetUserID(c))
	if errors.Is(err, services.ErrSnapshotNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.Error(c, response.NewServerError("failed to load dashboard snapshot").WithCause(err))
		return
	}
	response.Success(c, snap)
}

// TriggerSnapshots starts a snapshot pass outside the schedule.
// POST /api/admin/dashboard/snapshots
func (h *DashboardHandler) TriggerSnapshots(c *gin.Context) {
	n, err := h.snapshotService.RunPass(c.Request.Context())
	if err != nil {
		response.Error(c, response.NewServerError("snapshot pass failed").WithCause(err))
		return
	}
	logger.Info().Str("by", middleware.GetUsername(c)).Int("enqueued", n).Msg("manual snapshot pass")
	c.JSON(http.StatusAccepted, response.Response{Code: 0, Message: "accepted", Data: gin.H{"enqueued": n}})
}
