package handlers

import (
	"net/http"

	"scouthub/internal/engine/recruiting"
	"scouthub/internal/pkg/respond"
)

type RosterHandler struct {
	service *recruiting.Service
}

func NewRosterHandler(service *recruiting.Service) *RosterHandler {
	return &RosterHandler{service: service}
}

func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	roster, err := h.service.Roster(claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, roster)
}

func (h *RosterHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := h.service.RemoveFromRoster(claims.UserID, paramFrom(r, "player_id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Player removed from roster")
}

func (h *RosterHandler) Leave(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := h.service.LeaveOrganization(claims.UserID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Left organization")
}
