package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/store"
	"sudokuarena/internal/sudoku"
)

func newPuzzleService(t *testing.T) *PuzzleService {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewPuzzleService(repository.NewPuzzleRepo(db))
}

func TestGenerateMatchesDifficulty(t *testing.T) {
	svc := newPuzzleService(t)

	puzzle, solution := svc.Generate(model.DifficultyEasy)
	require.Len(t, puzzle, sudoku.Size)
	assert.GreaterOrEqual(t, puzzle.Clues(), sudoku.GivensFor("Easy"))
	assert.Equal(t, sudoku.Size*sudoku.Size, solution.Clues())

	// Hard boards carry fewer clues than easy ones.
	hard, _ := svc.Generate(model.DifficultyExpert)
	assert.Less(t, hard.Clues(), puzzle.Clues())
}

func TestCommunityPuzzleCreateAndList(t *testing.T) {
	svc := newPuzzleService(t)
	ctx := context.Background()

	grid, _ := svc.Generate(model.DifficultyMedium)
	created, err := svc.Create(ctx, "u1", "my first board", model.DifficultyMedium, grid)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.CreatorID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// The stored grid is a copy; mutating the input does not leak in.
	orig := grid[0][0]
	grid[0][0] = (orig + 1) % 10
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, orig, list[0].Grid[0][0])
}
