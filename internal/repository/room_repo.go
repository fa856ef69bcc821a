package repository

import (
	"context"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// RoomRepo persists rooms. All methods exchange deep copies: callers own what
// they get back and mutations only land via Update.
type RoomRepo interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	// GetJoinableByCode resolves a code among rooms still in the waiting
	// state; codes are only unique among those.
	GetJoinableByCode(ctx context.Context, code string) (*model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Room, error)
}

type roomRepo struct {
	store *store.Store
}

func NewRoomRepo(s *store.Store) RoomRepo {
	return &roomRepo{store: s}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.store.Update(func(d *store.Data) error {
		d.Rooms = append(d.Rooms, room.Clone())
		return nil
	})
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var found *model.Room
	r.store.View(func(d *store.Data) {
		for _, room := range d.Rooms {
			if room.ID == id {
				found = room.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *roomRepo) GetJoinableByCode(ctx context.Context, code string) (*model.Room, error) {
	var found *model.Room
	r.store.View(func(d *store.Data) {
		for _, room := range d.Rooms {
			if room.Code == code && room.Status == model.RoomWaiting {
				found = room.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.store.Update(func(d *store.Data) error {
		for i, existing := range d.Rooms {
			if existing.ID == room.ID {
				d.Rooms[i] = room.Clone()
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *roomRepo) List(ctx context.Context) ([]*model.Room, error) {
	var out []*model.Room
	r.store.View(func(d *store.Data) {
		out = make([]*model.Room, len(d.Rooms))
		for i, room := range d.Rooms {
			out[i] = room.Clone()
		}
	})
	return out, nil
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, existing := range d.Rooms {
			if existing.ID == id {
				d.Rooms = append(d.Rooms[:i], d.Rooms[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
