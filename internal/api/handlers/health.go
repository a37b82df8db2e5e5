package handlers

import (
	"database/sql"
	"net/http"

	"scouthub/internal/pkg/respond"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respond.Error(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	respond.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}
