package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// xpPerLevel: a user's level is derived from total XP, never stored
// independently.
const xpPerLevel = 1000

// UserService handles profiles, the leaderboard and XP rewards.
type UserService struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// Get returns the sanitized user.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Sanitized(), nil
}

// List returns all users, sanitized.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// UpdateProfile applies a patch to the user's own profile and returns the
// result. Password changes do not go through here.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch *model.UserPatch) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.XP != nil {
		user.XP = *patch.XP
		user.Level = user.XP/xpPerLevel + 1
	}
	if patch.Level != nil {
		user.Level = *patch.Level
	}
	if patch.SolvedPuzzles != nil {
		user.SolvedPuzzles = *patch.SolvedPuzzles
	}
	if patch.ProfileColor != nil {
		user.ProfileColor = *patch.ProfileColor
	}
	if patch.ProfilePicture != nil {
		user.ProfilePicture = *patch.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// Leaderboard returns the top users by XP.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].XP > users[j].XP })
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	out := make([]*model.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// AwardXP adds XP to a user and recomputes their level. A missing user is
// logged and skipped so gameplay flows never fail on a stale reference.
func (s *UserService) AwardXP(ctx context.Context, userID string, amount int) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		log.Warn().Err(err).Str("user", userID).Msg("xp award skipped")
		return
	}
	user.XP += amount
	user.Level = user.XP/xpPerLevel + 1
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("xp award not persisted")
	}
}
