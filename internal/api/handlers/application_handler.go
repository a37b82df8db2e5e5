package handlers

import (
	"net/http"

	"scouthub/internal/engine/recruiting"
	"scouthub/internal/pkg/respond"
)

type ApplicationHandler struct {
	service *recruiting.Service
}

func NewApplicationHandler(service *recruiting.Service) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	app, err := h.service.Apply(claims.UserID, paramFrom(r, "scouting_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	app, err := h.service.Withdraw(claims.UserID, paramFrom(r, "application_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Select(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	app, err := h.service.Select(claims.UserID, paramFrom(r, "application_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	app, err := h.service.Reject(claims.UserID, paramFrom(r, "application_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, app)
}

func (h *ApplicationHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	apps, err := h.service.ListOwnApplications(claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, apps)
}
