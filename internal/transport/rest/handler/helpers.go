package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sudokuarena/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrRoomNotJoinable),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrHostNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrRoomNotWaiting),
		errors.Is(err, service.ErrRoomNotActive),
		errors.Is(err, service.ErrCannotKickSelf),
		errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
