package handlers

import (
	"net/http"
	"strconv"

	"scouthub/internal/engine/notifications"
	"scouthub/internal/pkg/respond"
)

type NotificationHandler struct {
	service *notifications.Service
}

func NewNotificationHandler(service *notifications.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	list, err := h.service.List(claims.UserID, limit, offset)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	unread, err := h.service.CountUnread(claims.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Data(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
		"unread_count":  unread,
	})
}

// MarkRead succeeds even for unknown or foreign IDs; the read path is
// idempotent by contract.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := h.service.MarkRead(paramFrom(r, "notification_id"), claims.UserID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := h.service.MarkAllRead(claims.UserID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "All notifications marked as read")
}
