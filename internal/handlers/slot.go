package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/middleware"
	"github.com/mindmatestudy/backend/internal/services"
	"github.com/mindmatestudy/backend/pkg/response"
)

type SlotHandler struct {
	slotService *services.SlotService
}

func NewSlotHandler(slotService *services.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

// Add publishes a slot for the calling therapist.
// POST /api/slots/add
func (h *SlotHandler) Add(c *gin.Context) {
	var req services.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if middleware.GetRole(c) != "admin" && middleware.GetUserID(c) != req.TherapistID {
		response.Forbidden(c, "cannot add slots for another therapist")
		return
	}

	slot, err := h.slotService.Create(&req)
	switch {
	case errors.Is(err, services.ErrInvalidSlot):
		response.BadRequest(c, err.Error())
		return
	case errors.Is(err, services.ErrTherapistNotFound):
		response.NotFound(c, err.Error())
		return
	case err != nil:
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// ListByTherapist
// GET /api/slots/:id
func (h *SlotHandler) ListByTherapist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	slots, err := h.slotService.ListByTherapist(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, slots)
}
