package repository

import (
	"context"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// PuzzleRepo persists community puzzles.
type PuzzleRepo interface {
	Create(ctx context.Context, p *model.Puzzle) error
	List(ctx context.Context) ([]*model.Puzzle, error)
}

type puzzleRepo struct {
	store *store.Store
}

func NewPuzzleRepo(s *store.Store) PuzzleRepo {
	return &puzzleRepo{store: s}
}

func (r *puzzleRepo) Create(ctx context.Context, p *model.Puzzle) error {
	return r.store.Update(func(d *store.Data) error {
		d.Puzzles = append(d.Puzzles, p.Clone())
		return nil
	})
}

func (r *puzzleRepo) List(ctx context.Context) ([]*model.Puzzle, error) {
	out := []*model.Puzzle{}
	r.store.View(func(d *store.Data) {
		for _, p := range d.Puzzles {
			out = append(out, p.Clone())
		}
	})
	return out, nil
}
