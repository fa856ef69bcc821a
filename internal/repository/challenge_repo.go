package repository

import (
	"context"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// ChallengeRepo persists head-to-head challenges.
type ChallengeRepo interface {
	Create(ctx context.Context, c *model.Challenge) error
	GetByID(ctx context.Context, id string) (*model.Challenge, error)
	// ListForUser returns challenges the user sent or received.
	ListForUser(ctx context.Context, userID string) ([]*model.Challenge, error)
	Delete(ctx context.Context, id string) error
}

type challengeRepo struct {
	store *store.Store
}

func NewChallengeRepo(s *store.Store) ChallengeRepo {
	return &challengeRepo{store: s}
}

func (r *challengeRepo) Create(ctx context.Context, c *model.Challenge) error {
	return r.store.Update(func(d *store.Data) error {
		d.Challenges = append(d.Challenges, c.Clone())
		return nil
	})
}

func (r *challengeRepo) GetByID(ctx context.Context, id string) (*model.Challenge, error) {
	var found *model.Challenge
	r.store.View(func(d *store.Data) {
		for _, c := range d.Challenges {
			if c.ID == id {
				found = c.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *challengeRepo) ListForUser(ctx context.Context, userID string) ([]*model.Challenge, error) {
	out := []*model.Challenge{}
	r.store.View(func(d *store.Data) {
		for _, c := range d.Challenges {
			if c.FromUserID == userID || c.ToUserID == userID {
				out = append(out, c.Clone())
			}
		}
	})
	return out, nil
}

func (r *challengeRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, c := range d.Challenges {
			if c.ID == id {
				d.Challenges = append(d.Challenges[:i], d.Challenges[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
