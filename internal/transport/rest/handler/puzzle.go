package handler

import (
	"encoding/json"
	"net/http"

	"sudokuarena/internal/model"
	"sudokuarena/internal/service"
	"sudokuarena/internal/sudoku"
	"sudokuarena/internal/transport/rest/middleware"
)

// PuzzleHandler handles community puzzles and server-side generation.
type PuzzleHandler struct {
	puzzleSvc *service.PuzzleService
}

func NewPuzzleHandler(puzzleSvc *service.PuzzleService) *PuzzleHandler {
	return &PuzzleHandler{puzzleSvc: puzzleSvc}
}

// Create handles POST /api/puzzles
func (h *PuzzleHandler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID := middleware.GetUserID(r.Context())

	var req struct {
		Title      string           `json:"title"`
		Difficulty model.Difficulty `json:"difficulty"`
		Grid       sudoku.Grid      `json:"grid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Grid) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	puzzle, err := h.puzzleSvc.Create(r.Context(), creatorID, req.Title, req.Difficulty, req.Grid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, puzzle)
}

// List handles GET /api/puzzles
func (h *PuzzleHandler) List(w http.ResponseWriter, r *http.Request) {
	puzzles, err := h.puzzleSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, puzzles)
}

// Generate handles GET /api/puzzles/generate?difficulty=Medium
func (h *PuzzleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	difficulty := model.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}

	puzzle, solution := h.puzzleSvc.Generate(difficulty)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"difficulty": difficulty,
		"puzzle":     puzzle,
		"solution":   solution,
	})
}
