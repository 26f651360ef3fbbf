package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/middleware"
	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/internal/services"
	"github.com/mindmatestudy/backend/pkg/response"
)

type TherapistHandler struct {
	therapistService *services.TherapistService
}

func NewTherapistHandler(therapistService *services.TherapistService) *TherapistHandler {
	return &TherapistHandler{therapistService: therapistService}
}

// therapistError maps service errors onto HTTP errors.
func therapistError(err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrTherapistExists),
		errors.Is(err, services.ErrInvalidTherapistType),
		errors.Is(err, services.ErrInvalidTherapistAuth):
		return response.NewBadRequest(err.Error())
	case errors.Is(err, services.ErrTherapistNotFound),
		errors.Is(err, services.ErrNoTherapists):
		return response.NewNotFound(err.Error())
	}
	return err
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// POST /api/therapists/register
func (h *TherapistHandler) Register(c *gin.Context) {
	var req services.TherapistRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, services.ErrMissingFields.Error())
		return
	}

	resp, err := h.therapistService.Register(&req)
	if err != nil {
		response.Error(c, therapistError(err))
		return
	}
	response.Created(c, resp)
}

// POST /api/therapists/login
func (h *TherapistHandler) Login(c *gin.Context) {
	var req services.TherapistLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.therapistService.Login(&req)
	if err != nil {
		response.Error(c, therapistError(err))
		return
	}
	response.Success(c, resp)
}

// GET /api/therapists/therapist
func (h *TherapistHandler) ListTherapists(c *gin.Context) {
	h.listByType(c, models.TherapistTypeTherapist)
}

// GET /api/therapists/mentor
func (h *TherapistHandler) ListMentors(c *gin.Context) {
	h.listByType(c, models.TherapistTypeMentor)
}

func (h *TherapistHandler) listByType(c *gin.Context, kind string) {
	therapists, err := h.therapistService.ListByType(kind)
	if err != nil {
		response.Error(c, therapistError(err))
		return
	}
	response.Success(c, therapists)
}

// GET /api/therapists/:id
func (h *TherapistHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	therapist, err := h.therapistService.GetByID(id)
	if err != nil {
		response.Error(c, therapistError(err))
		return
	}
	response.Success(c, therapist)
}

// Update changes the caller's own profile; admins may edit anyone.
// PUT /api/therapists/:id
func (h *TherapistHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if middleware.GetRole(c) != "admin" && middleware.GetUserID(c) != id {
		response.Forbidden(c, "cannot edit another therapist")
		return
	}

	var req services.TherapistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	therapist, err := h.therapistService.Update(id, &req)
	if err != nil {
		response.Error(c, therapistError(err))
		return
	}
	response.Success(c, therapist)
}
