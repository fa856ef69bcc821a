package repository

import (
	"context"

	"sudokuarena/internal/model"
	"sudokuarena/internal/store"
)

// NotificationRepo persists user notifications.
type NotificationRepo interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Notification, error)
	Update(ctx context.Context, n *model.Notification) error
	// MarkAllRead flags every notification belonging to the user as read.
	MarkAllRead(ctx context.Context, userID string) error
	// DeleteByRelatedID removes notifications produced by the given source
	// entity (e.g. when a challenge is accepted or declined).
	DeleteByRelatedID(ctx context.Context, relatedID string) error
}

type notificationRepo struct {
	store *store.Store
}

func NewNotificationRepo(s *store.Store) NotificationRepo {
	return &notificationRepo{store: s}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.store.Update(func(d *store.Data) error {
		d.Notifications = append(d.Notifications, n.Clone())
		return nil
	})
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var found *model.Notification
	r.store.View(func(d *store.Data) {
		for _, n := range d.Notifications {
			if n.ID == id {
				found = n.Clone()
				return
			}
		}
	})
	return found, nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	out := []*model.Notification{}
	r.store.View(func(d *store.Data) {
		for _, n := range d.Notifications {
			if n.UserID == userID {
				out = append(out, n.Clone())
			}
		}
	})
	return out, nil
}

func (r *notificationRepo) Update(ctx context.Context, n *model.Notification) error {
	return r.store.Update(func(d *store.Data) error {
		for i, existing := range d.Notifications {
			if existing.ID == n.ID {
				d.Notifications[i] = n.Clone()
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return r.store.Update(func(d *store.Data) error {
		for _, n := range d.Notifications {
			if n.UserID == userID {
				n.Read = true
			}
		}
		return nil
	})
}

func (r *notificationRepo) DeleteByRelatedID(ctx context.Context, relatedID string) error {
	return r.store.Update(func(d *store.Data) error {
		kept := d.Notifications[:0]
		for _, n := range d.Notifications {
			if n.RelatedID != relatedID {
				kept = append(kept, n)
			}
		}
		d.Notifications = kept
		return nil
	})
}
