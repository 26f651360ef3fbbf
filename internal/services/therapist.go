package services

import (
	"errors"
	"strings"

	"github.com/mindmatestudy/backend/internal/config"
	"github.com/mindmatestudy/backend/internal/models"
	"github.com/mindmatestudy/backend/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMissingFields        = errors.New("all fields are required")
	ErrTherapistExists      = errors.New("therapist already exists")
	ErrTherapistNotFound    = errors.New("therapist not found")
	ErrNoTherapists         = errors.New("no therapists found")
	ErrInvalidTherapistType = errors.New("invalid therapist type")
	ErrInvalidTherapistAuth = errors.New("invalid credentials")
)

type TherapistService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewTherapistService(db *gorm.DB, jwtCfg *config.JWTConfig) *TherapistService {
	return &TherapistService{db: db, jwtConfig: jwtCfg}
}

type TherapistRegisterRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password"`
	VirtualFee     float64 `json:"virtual_fee"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Gender         string  `json:"gender"`
	Type           string  `json:"type"`
}

// Zero fee and zero experience count as missing.
func (r *TherapistRegisterRequest) complete() bool {
	return r.Name != "" && r.Email != "" && r.Phone != "" && r.Password != "" &&
		r.VirtualFee != 0 && r.Specialization != "" && r.Experience != 0 &&
		r.Gender != "" && r.Type != ""
}

type TherapistLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TherapistUpdateRequest only applies non-zero fields.
type TherapistUpdateRequest struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password"`
	VirtualFee     float64 `json:"virtual_fee"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience"`
	Gender         string  `json:"gender"`
	Type           string  `json:"type"`
}

type TherapistAuthResponse struct {
	Token     string            `json:"token"`
	Therapist *models.Therapist `json:"therapist"`
}

func validTherapistType(t string) bool {
	return t == models.TherapistTypeTherapist || t == models.TherapistTypeMentor
}

func (s *TherapistService) Register(req *TherapistRegisterRequest) (*TherapistAuthResponse, error) {
	if !req.complete() {
		return nil, ErrMissingFields
	}
	if !validTherapistType(req.Type) {
		return nil, ErrInvalidTherapistType
	}
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.Model(&models.Therapist{}).
		Where("email = ? OR phone = ?", email, req.Phone).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTherapistExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	therapist := models.Therapist{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Phone:          req.Phone,
		Password:       hashedPassword,
		VirtualFee:     req.VirtualFee,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Gender:         req.Gender,
		Type:           req.Type,
	}
	if err := s.db.Create(&therapist).Error; err != nil {
		return nil, err
	}
	return s.issue(&therapist)
}

func (s *TherapistService) Login(req *TherapistLoginRequest) (*TherapistAuthResponse, error) {
	var therapist models.Therapist
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&therapist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapistNotFound
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, therapist.Password) {
		return nil, ErrInvalidTherapistAuth
	}
	return s.issue(&therapist)
}

func (s *TherapistService) issue(t *models.Therapist) (*TherapistAuthResponse, error) {
	token, err := utils.GenerateToken(t.ID, t.Email, strings.ToLower(t.Type), s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}
	return &TherapistAuthResponse{Token: token, Therapist: t}, nil
}

func (s *TherapistService) GetByID(id uint) (*models.Therapist, error) {
	var therapist models.Therapist
	if err := s.db.First(&therapist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTherapistNotFound
		}
		return nil, err
	}
	return &therapist, nil
}

// ListByType returns ErrNoTherapists rather than an empty list.
func (s *TherapistService) ListByType(therapistType string) ([]models.Therapist, error) {
	var therapists []models.Therapist
	if err := s.db.Where("type = ?", therapistType).Order("id ASC").Find(&therapists).Error; err != nil {
		return nil, err
	}
	if len(therapists) == 0 {
		return nil, ErrNoTherapists
	}
	return therapists, nil
}

func (s *TherapistService) Update(id uint, req *TherapistUpdateRequest) (*models.Therapist, error) {
	therapist, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Type != "" && !validTherapistType(req.Type) {
		return nil, ErrInvalidTherapistType
	}

	if req.Phone != "" && req.Phone != therapist.Phone {
		var count int64
		if err := s.db.Model(&models.Therapist{}).
			Where("phone = ? AND id <> ?", req.Phone, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrTherapistExists
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.VirtualFee != 0 {
		updates["virtual_fee"] = req.VirtualFee
	}
	if req.Specialization != "" {
		updates["specialization"] = req.Specialization
	}
	if req.Experience != 0 {
		updates["experience"] = req.Experience
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashedPassword
	}

	if len(updates) > 0 {
		if err := s.db.Model(therapist).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}
