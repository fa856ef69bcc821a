package service

import (
	"context"
	"errors"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes a user's inbox.
type NotificationService struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationService(notificationRepo repository.NotificationRepo) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListForUser returns the user's notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID)
}

// MarkRead flags one notification read. Only its owner may.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	n.Read = true
	return s.notificationRepo.Update(ctx, n)
}

// MarkAllRead flags the user's whole inbox read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
