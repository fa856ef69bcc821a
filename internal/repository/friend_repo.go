package repository

import (
	"context"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// FriendRequestRepo persists pending friend requests.
type FriendRequestRepo interface {
	Create(ctx context.Context, req *model.FriendRequest) error
	GetByID(ctx context.Context, id string) (*model.FriendRequest, error)
	ListForUser(ctx context.Context, toUserID string) ([]*model.FriendRequest, error)
	Delete(ctx context.Context, id string) error
}

type friendRequestRepo struct {
	store *store.Store
}

func NewFriendRequestRepo(s *store.Store) FriendRequestRepo {
	return &friendRequestRepo{store: s}
}

func (r *friendRequestRepo) Create(ctx context.Context, req *model.FriendRequest) error {
	return r.store.Update(func(d *store.Data) error {
		d.FriendRequests = append(d.FriendRequests, req.Clone())
		return nil
	})
}

func (r *friendRequestRepo) GetByID(ctx context.Context, id string) (*model.FriendRequest, error) {
	var found *model.FriendRequest
	r.store.View(func(d *store.Data) {
		for _, fr := range d.FriendRequests {
			if fr.ID == id {
				found = fr.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *friendRequestRepo) ListForUser(ctx context.Context, toUserID string) ([]*model.FriendRequest, error) {
	out := []*model.FriendRequest{}
	r.store.View(func(d *store.Data) {
		for _, fr := range d.FriendRequests {
			if fr.ToUserID == toUserID {
				out = append(out, fr.Clone())
			}
		}
	})
	return out, nil
}

func (r *friendRequestRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, fr := range d.FriendRequests {
			if fr.ID == id {
				d.FriendRequests = append(d.FriendRequests[:i], d.FriendRequests[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
