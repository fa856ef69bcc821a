package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
)

var ErrRequestNotFound = errors.New("friend request not found")

// FriendService handles the friend graph and its pending requests.
type FriendService struct {
	requestRepo repository.FriendRequestRepo
	userRepo    repository.UserRepo
}

func NewFriendService(requestRepo repository.FriendRequestRepo, userRepo repository.UserRepo) *FriendService {
	return &FriendService{requestRepo: requestRepo, userRepo: userRepo}
}

// SendRequest creates a pending request addressed by username.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID, toUsername string) (*model.FriendRequest, error) {
	toUser, err := s.userRepo.GetByUsername(ctx, toUsername)
	if err != nil {
		return nil, err
	}
	if toUser == nil {
		return nil, ErrUserNotFound
	}
	fromUser, err := s.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if fromUser == nil {
		return nil, ErrUserNotFound
	}

	req := &model.FriendRequest{
		ID:           "fr_" + uuid.New().String()[:8],
		FromUserID:   fromUser.ID,
		ToUserID:     toUser.ID,
		FromUsername: fromUser.Username,
		ToUsername:   toUser.Username,
		Status:       "pending",
		CreatedAt:    time.Now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept adds each user to the other's friend list and removes the request.
// Only the addressee may accept.
func (s *FriendService) Accept(ctx context.Context, requestID, userID string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ToUserID != userID {
		return ErrForbidden
	}

	if err := s.link(ctx, req.FromUserID, req.ToUserID); err != nil {
		return err
	}
	if err := s.link(ctx, req.ToUserID, req.FromUserID); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, requestID)
}

// Reject discards the request. Only the addressee may reject.
func (s *FriendService) Reject(ctx context.Context, requestID, userID string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ToUserID != userID {
		return ErrForbidden
	}
	return s.requestRepo.Delete(ctx, requestID)
}

// ListFriends returns the user's friends, sanitized.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	friends := []*model.User{}
	for _, id := range user.Friends {
		friend, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if friend != nil {
			friends = append(friends, friend.Sanitized())
		}
	}
	return friends, nil
}

// ListRequests returns pending requests addressed to the user.
func (s *FriendService) ListRequests(ctx context.Context, userID string) ([]*model.FriendRequest, error) {
	return s.requestRepo.ListForUser(ctx, userID)
}

// Unfriend removes the friendship from both sides.
func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) error {
	if err := s.unlink(ctx, userID, friendID); err != nil {
		return err
	}
	return s.unlink(ctx, friendID, userID)
}

func (s *FriendService) link(ctx context.Context, userID, friendID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return err
	}
	for _, id := range user.Friends {
		if id == friendID {
			return nil
		}
	}
	user.Friends = append(user.Friends, friendID)
	return s.userRepo.Update(ctx, user)
}

func (s *FriendService) unlink(ctx context.Context, userID, friendID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return err
	}
	kept := user.Friends[:0]
	for _, id := range user.Friends {
		if id != friendID {
			kept = append(kept, id)
		}
	}
	user.Friends = kept
	return s.userRepo.Update(ctx, user)
}
