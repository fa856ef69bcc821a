package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"sudokuarena/internal/model"
	"sudokuarena/internal/service"
	"sudokuarena/internal/sudoku"
	"sudokuarena/internal/transport/rest/middleware"
)

// RoomHandler handles the room lifecycle endpoints.
type RoomHandler struct {
	roomSvc *service.RoomService
}

func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	Difficulty model.Difficulty `json:"difficulty"`
	Puzzle     sudoku.Grid      `json:"puzzle"`
	Solution   sudoku.Grid      `json:"solution"`
	MaxPlayers int              `json:"maxPlayers"`
}

// Create handles POST /api/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetUserID(r.Context())

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Puzzle) == 0 || len(req.Solution) == 0 {
		writeError(w, http.StatusBadRequest, "puzzle and solution required")
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), hostID, req.Difficulty, req.Puzzle, req.Solution, req.MaxPlayers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Join handles POST /api/rooms/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.roomSvc.JoinByCode(r.Context(), req.Code, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Get handles GET /api/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), mux.Vars(r)["roomId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// Leave handles POST /api/rooms/{roomId}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.roomSvc.Leave(r.Context(), mux.Vars(r)["roomId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// Kick handles POST /api/rooms/{roomId}/kick
func (h *RoomHandler) Kick(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetUserID(r.Context())

	var req struct {
		KickedPlayerID string `json:"kickedPlayerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.roomSvc.Kick(r.Context(), mux.Vars(r)["roomId"], hostID, req.KickedPlayerID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "player kicked"})
}

// Ready handles POST /api/rooms/{roomId}/ready
func (h *RoomHandler) Ready(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	var req struct {
		UserID  string `json:"userId"`
		IsReady bool   `json:"isReady"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Players may only toggle their own flag.
	if req.UserID != callerID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.roomSvc.SetReady(r.Context(), mux.Vars(r)["roomId"], callerID, req.IsReady); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// Start handles POST /api/rooms/{roomId}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.roomSvc.Start(r.Context(), mux.Vars(r)["roomId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// Progress handles POST /api/rooms/{roomId}/progress
func (h *RoomHandler) Progress(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())

	var req struct {
		UserID      string `json:"userId"`
		Progress    int    `json:"progress"`
		TimeElapsed int    `json:"timeElapsed"`
		Finished    bool   `json:"finished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID != callerID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.roomSvc.ReportProgress(r.Context(), mux.Vars(r)["roomId"], callerID, req.Progress, req.TimeElapsed, req.Finished); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

// Delete handles DELETE /api/rooms/{roomId}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.roomSvc.DeleteRoom(r.Context(), mux.Vars(r)["roomId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}
