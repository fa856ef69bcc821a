package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/sudoku"
)

// PuzzleService owns generated and community puzzles.
type PuzzleService struct {
	puzzleRepo repository.PuzzleRepo

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewPuzzleService(puzzleRepo repository.PuzzleRepo) *PuzzleService {
	return &PuzzleService{
		puzzleRepo: puzzleRepo,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate produces a fresh puzzle and its solution at the given difficulty.
func (s *PuzzleService) Generate(difficulty model.Difficulty) (puzzle, solution sudoku.Grid) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return sudoku.Generate(s.rng, sudoku.GivensFor(string(difficulty)))
}

// Create stores a community puzzle.
func (s *PuzzleService) Create(ctx context.Context, creatorID, title string, difficulty model.Difficulty, grid sudoku.Grid) (*model.Puzzle, error) {
	puzzle := &model.Puzzle{
		ID:         "puzzle_" + uuid.New().String()[:8],
		CreatorID:  creatorID,
		Title:      title,
		Difficulty: difficulty,
		Grid:       grid.Clone(),
		Likes:      []string{},
		CreatedAt:  time.Now(),
	}
	if err := s.puzzleRepo.Create(ctx, puzzle); err != nil {
		return nil, err
	}
	return puzzle, nil
}

// List returns all community puzzles.
func (s *PuzzleService) List(ctx context.Context) ([]*model.Puzzle, error) {
	return s.puzzleRepo.List(ctx)
}
