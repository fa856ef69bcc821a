package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"sudokuarena/internal/service"
	"sudokuarena/internal/transport/rest/middleware"
)

// FriendHandler handles the friend graph endpoints.
type FriendHandler struct {
	friendSvc *service.FriendService
}

func NewFriendHandler(friendSvc *service.FriendService) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc}
}

// Request handles POST /api/friends/request
func (h *FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ToUsername string `json:"toUsername"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToUsername == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fr, err := h.friendSvc.SendRequest(r.Context(), userID, req.ToUsername)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fr)
}

// Accept handles POST /api/friends/accept/{requestId}
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.friendSvc.Accept(r.Context(), mux.Vars(r)["requestId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// Reject handles POST /api/friends/reject/{requestId}
func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.friendSvc.Reject(r.Context(), mux.Vars(r)["requestId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// List handles GET /api/friends/{userId}
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friendSvc.ListFriends(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// Requests handles GET /api/friends/requests/{userId}
func (h *FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if middleware.GetUserID(r.Context()) != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	requests, err := h.friendSvc.ListRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Unfriend handles DELETE /api/friends/{userId}/{friendId}
func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if middleware.GetUserID(r.Context()) != vars["userId"] {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.friendSvc.Unfriend(r.Context(), vars["userId"], vars["friendId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}
