package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/models"
	"scouthub/internal/platform/repositories"
)

type ProfileHandler struct {
	profileRepo *repositories.PlayerProfileRepository
}

func NewProfileHandler(profileRepo *repositories.PlayerProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

type ProfileRequest struct {
	DisplayName string   `json:"display_name"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Country     string   `json:"country"`
	Device      string   `json:"device"`
	KDRatio     float64  `json:"kd_ratio"`
	AvgDamage   float64  `json:"avg_damage"`
	Roles       []string `json:"roles"`
	BanHistory  bool     `json:"ban_history"`
}

// Create completes the player's profile. One profile per account; completing
// it is what makes the player visible to the recruiting workflows.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.profileRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		respond.Error(w, http.StatusBadRequest, "Profile already exists")
		return
	}

	now := time.Now().Unix()
	profile := &models.PlayerProfile{
		ID:               uuid.New().String(),
		UserID:           claims.UserID,
		DisplayName:      req.DisplayName,
		Age:              req.Age,
		Gender:           req.Gender,
		Country:          req.Country,
		Device:           req.Device,
		KDRatio:          req.KDRatio,
		AvgDamage:        req.AvgDamage,
		Roles:            req.Roles,
		BanHistory:       req.BanHistory,
		ProfileCompleted: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.profileRepo.Create(profile); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	profile, err := h.profileRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if profile == nil {
		respond.Error(w, http.StatusNotFound, "Profile not found")
		return
	}

	respond.Data(w, http.StatusOK, profile)
}

// Update edits the caller's profile. A profile attached to an organization
// is frozen until the player leaves or is removed.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	profile, err := h.profileRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if profile == nil {
		respond.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	if profile.CurrentOrganizationID != nil {
		respond.Error(w, http.StatusBadRequest, "Profile cannot be edited while in an organization")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.Age != 0 {
		profile.Age = req.Age
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
	}
	if req.Country != "" {
		profile.Country = req.Country
	}
	if req.Device != "" {
		profile.Device = req.Device
	}
	if req.KDRatio != 0 {
		profile.KDRatio = req.KDRatio
	}
	if req.AvgDamage != 0 {
		profile.AvgDamage = req.AvgDamage
	}
	if req.Roles != nil {
		profile.Roles = req.Roles
	}
	profile.BanHistory = req.BanHistory

	if err := h.profileRepo.Update(profile); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(w, http.StatusOK, profile)
}
