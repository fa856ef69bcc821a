package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
)

var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeService handles head-to-head invitations. Accepting one generates
// a puzzle at the challenged difficulty and opens a two-player room for both
// users.
type ChallengeService struct {
	challengeRepo    repository.ChallengeRepo
	notificationRepo repository.NotificationRepo
	userRepo         repository.UserRepo
	rooms            *RoomService
	puzzles          *PuzzleService
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepo,
	notificationRepo repository.NotificationRepo,
	userRepo repository.UserRepo,
	rooms *RoomService,
	puzzles *PuzzleService,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo:    challengeRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		rooms:            rooms,
		puzzles:          puzzles,
	}
}

// Create files a challenge and drops a notification in the target's inbox.
func (s *ChallengeService) Create(ctx context.Context, fromUserID, toUserID string, difficulty model.Difficulty) (*model.Challenge, error) {
	fromUser, err := s.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	toUser, err := s.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	if fromUser == nil || toUser == nil {
		return nil, ErrUserNotFound
	}

	challenge := &model.Challenge{
		ID:         "chal_" + uuid.New().String()[:8],
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Difficulty: difficulty,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	notification := &model.Notification{
		ID:        "notif_" + uuid.New().String()[:8],
		UserID:    toUserID,
		Type:      "challenge",
		Message:   fmt.Sprintf("%s challenged you to a %s game!", fromUser.Username, difficulty),
		RelatedID: challenge.ID,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return challenge, nil
}

// ListForUser returns challenges the user sent or received.
func (s *ChallengeService) ListForUser(ctx context.Context, userID string) ([]*model.Challenge, error) {
	return s.challengeRepo.ListForUser(ctx, userID)
}

// Accept creates the game room and cleans up the challenge and its
// notification. Only the challenged user may accept; the challenger becomes
// host.
func (s *ChallengeService) Accept(ctx context.Context, challengeID, userID string) (*model.Room, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.ToUserID != userID {
		return nil, ErrForbidden
	}

	puzzle, solution := s.puzzles.Generate(challenge.Difficulty)
	room, err := s.rooms.CreateChallengeRoom(ctx, challenge.FromUserID, challenge.ToUserID, challenge.Difficulty, puzzle, solution)
	if err != nil {
		return nil, err
	}

	if err := s.challengeRepo.Delete(ctx, challengeID); err != nil {
		return nil, err
	}
	if err := s.notificationRepo.DeleteByRelatedID(ctx, challengeID); err != nil {
		return nil, err
	}
	return room, nil
}

// Decline discards the challenge and its notification. Only the challenged
// user may decline.
func (s *ChallengeService) Decline(ctx context.Context, challengeID, userID string) error {
	challenge, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.ToUserID != userID {
		return ErrForbidden
	}

	if err := s.challengeRepo.Delete(ctx, challengeID); err != nil {
		return err
	}
	return s.notificationRepo.DeleteByRelatedID(ctx, challengeID)
}
