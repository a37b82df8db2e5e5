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

type OrgHandler struct {
	orgRepo *repositories.OrganizationRepository
}

func NewOrgHandler(orgRepo *repositories.OrganizationRepository) *OrgHandler {
	return &OrgHandler{orgRepo: orgRepo}
}

type OrgRequest struct {
	Name    string `json:"name"`
	Tag     string `json:"tag"`
	Region  string `json:"region"`
	LogoURL string `json:"logo_url"`
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req OrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.orgRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		respond.Error(w, http.StatusBadRequest, "Organization already exists")
		return
	}

	now := time.Now().Unix()
	org := &models.Organization{
		ID:        uuid.New().String(),
		UserID:    claims.UserID,
		Name:      req.Name,
		Tag:       req.Tag,
		Region:    req.Region,
		LogoURL:   req.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.orgRepo.Create(org); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(w, http.StatusCreated, org)
}

func (h *OrgHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	org, err := h.orgRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if org == nil {
		respond.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	respond.Data(w, http.StatusOK, org)
}

func (h *OrgHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	org, err := h.orgRepo.GetByUserID(claims.UserID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if org == nil {
		respond.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	var req OrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Tag != "" {
		org.Tag = req.Tag
	}
	if req.Region != "" {
		org.Region = req.Region
	}
	if req.LogoURL != "" {
		org.LogoURL = req.LogoURL
	}

	if err := h.orgRepo.Update(org); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(w, http.StatusOK, org)
}
