package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"sudokuarena/internal/service"
	"sudokuarena/internal/transport/rest/middleware"
)

// NotificationHandler handles inbox endpoints.
type NotificationHandler struct {
	notificationSvc *service.NotificationService
}

func NewNotificationHandler(notificationSvc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List handles GET /api/notifications/{userId}
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if middleware.GetUserID(r.Context()) != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	notifications, err := h.notificationSvc.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PUT /api/notifications/{notificationId}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.notificationSvc.MarkRead(r.Context(), mux.Vars(r)["notificationId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// MarkAllRead handles PUT /api/notifications/{userId}/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if middleware.GetUserID(r.Context()) != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.notificationSvc.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}
