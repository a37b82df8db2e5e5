package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/auth"
	"scouthub/internal/platform/config"
	"scouthub/internal/realtime"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	tokenSvc *auth.TokenService
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, tokenSvc *auth.TokenService, cfg config.RealtimeConfig) *RealtimeHandler {
	return &RealtimeHandler{
		hub:      hub,
		tokenSvc: tokenSvc,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients cannot set an Authorization header on a
			// websocket; origin policy is the frontend's concern.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect authenticates the credential presented as a query parameter and,
// on success, subscribes the connection to the user's private channel. The
// request goroutine then runs the pumps until the transport drops.
func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "Missing token")
		return
	}

	claims, err := h.tokenSvc.ValidateToken(token)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	realtime.Serve(h.hub, ws, claims.UserID, h.cfg)
}
