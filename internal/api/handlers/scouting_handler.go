package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"scouthub/internal/engine/recruiting"
	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/models"
)

type ScoutingHandler struct {
	service *recruiting.Service
}

func NewScoutingHandler(service *recruiting.Service) *ScoutingHandler {
	return &ScoutingHandler{service: service}
}

type CreateScoutingRequest struct {
	Title             string   `json:"title"`
	RequiredRoles     []string `json:"required_roles"`
	AllowedDevices    []string `json:"allowed_devices"`
	MinAge            *int     `json:"min_age"`
	MaxAge            *int     `json:"max_age"`
	AllowedGenders    []string `json:"allowed_genders"`
	MinKDRatio        *float64 `json:"min_kd_ratio"`
	MinAvgDamage      *float64 `json:"min_avg_damage"`
	BanHistoryAllowed bool     `json:"ban_history_allowed"`
	PlayersRequired   int      `json:"players_required"`
}

func (h *ScoutingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req CreateScoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayersRequired < 1 {
		respond.Error(w, http.StatusBadRequest, "players_required must be at least 1")
		return
	}

	scouting := &models.Scouting{
		Title:             req.Title,
		RequiredRoles:     req.RequiredRoles,
		AllowedDevices:    req.AllowedDevices,
		MinAge:            req.MinAge,
		MaxAge:            req.MaxAge,
		AllowedGenders:    req.AllowedGenders,
		MinKDRatio:        req.MinKDRatio,
		MinAvgDamage:      req.MinAvgDamage,
		BanHistoryAllowed: req.BanHistoryAllowed,
		PlayersRequired:   req.PlayersRequired,
	}

	created, err := h.service.CreateScouting(claims.UserID, scouting)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusCreated, created)
}

func (h *ScoutingHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	scoutings, err := h.service.ListActiveScoutings(limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, scoutings)
}

func (h *ScoutingHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	scoutings, err := h.service.ListOwnScoutings(claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, scoutings)
}

func (h *ScoutingHandler) Get(w http.ResponseWriter, r *http.Request) {
	scouting, err := h.service.GetScouting(paramFrom(r, "scouting_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, scouting)
}

type UpdateScoutingRequest struct {
	Title             *string  `json:"title"`
	RequiredRoles     []string `json:"required_roles"`
	AllowedDevices    []string `json:"allowed_devices"`
	MinAge            *int     `json:"min_age"`
	MaxAge            *int     `json:"max_age"`
	AllowedGenders    []string `json:"allowed_genders"`
	MinKDRatio        *float64 `json:"min_kd_ratio"`
	MinAvgDamage      *float64 `json:"min_avg_damage"`
	BanHistoryAllowed *bool    `json:"ban_history_allowed"`
}

func (h *ScoutingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req UpdateScoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	scouting, err := h.service.UpdateScouting(claims.UserID, paramFrom(r, "scouting_id"), &recruiting.ScoutingUpdate{
		Title:             req.Title,
		RequiredRoles:     req.RequiredRoles,
		AllowedDevices:    req.AllowedDevices,
		MinAge:            req.MinAge,
		MaxAge:            req.MaxAge,
		AllowedGenders:    req.AllowedGenders,
		MinKDRatio:        req.MinKDRatio,
		MinAvgDamage:      req.MinAvgDamage,
		BanHistoryAllowed: req.BanHistoryAllowed,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, scouting)
}

func (h *ScoutingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	scouting, err := h.service.CancelScouting(claims.UserID, paramFrom(r, "scouting_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, scouting)
}

func (h *ScoutingHandler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	apps, err := h.service.ListScoutingApplications(claims.UserID, paramFrom(r, "scouting_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, apps)
}
