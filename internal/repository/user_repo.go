package repository

import (
	"context"
	"strings"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// UserRepo persists user accounts.
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
}

type userRepo struct {
	store *store.Store
}

func NewUserRepo(s *store.Store) UserRepo {
	return &userRepo{store: s}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.store.Update(func(d *store.Data) error {
		d.Users = append(d.Users, user.Clone())
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var found *model.User
	r.store.View(func(d *store.Data) {
		for _, u := range d.Users {
			if u.ID == id {
				found = u.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var found *model.User
	r.store.View(func(d *store.Data) {
		for _, u := range d.Users {
			if strings.EqualFold(u.Username, username) {
				found = u.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.store.Update(func(d *store.Data) error {
		for i, existing := range d.Users {
			if existing.ID == user.ID {
				d.Users[i] = user.Clone()
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	r.store.View(func(d *store.Data) {
		out = make([]*model.User, len(d.Users))
		for i, u := range d.Users {
			out[i] = u.Clone()
		}
	})
	return out, nil
}
