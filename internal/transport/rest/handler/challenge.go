package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"sudokuarena/internal/model"
	"sudokuarena/internal/service"
	"sudokuarena/internal/transport/rest/middleware"
)

// ChallengeHandler handles head-to-head challenge endpoints.
type ChallengeHandler struct {
	challengeSvc *service.ChallengeService
}

func NewChallengeHandler(challengeSvc *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeSvc: challengeSvc}
}

// Create handles POST /api/challenges
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	fromUserID := middleware.GetUserID(r.Context())

	var req struct {
		ToUserID   string           `json:"toUserId"`
		Difficulty model.Difficulty `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToUserID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, err := h.challengeSvc.Create(r.Context(), fromUserID, req.ToUserID, req.Difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, challenge)
}

// ListMine handles GET /api/users/{userId}/challenges
func (h *ChallengeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if middleware.GetUserID(r.Context()) != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	challenges, err := h.challengeSvc.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challenges)
}

// Accept handles POST /api/challenges/{challengeId}/accept
func (h *ChallengeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	room, err := h.challengeSvc.Accept(r.Context(), mux.Vars(r)["challengeId"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Decline handles POST /api/challenges/{challengeId}/decline
func (h *ChallengeHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.challengeSvc.Decline(r.Context(), mux.Vars(r)["challengeId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}
