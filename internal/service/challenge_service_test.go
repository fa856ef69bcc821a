package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/store"
)

type challengeFixture struct {
	challenges    *ChallengeService
	notifications *NotificationService
	rooms         *RoomService
	userRepo      repository.UserRepo
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	userRepo := repository.NewUserRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	userSvc := NewUserService(userRepo)
	roomSvc := NewRoomService(repository.NewRoomRepo(db), userRepo, userSvc)
	puzzleSvc := NewPuzzleService(repository.NewPuzzleRepo(db))

	return &challengeFixture{
		challenges:    NewChallengeService(repository.NewChallengeRepo(db), notificationRepo, userRepo, roomSvc, puzzleSvc),
		notifications: NewNotificationService(notificationRepo),
		rooms:         roomSvc,
		userRepo:      userRepo,
	}
}

func (f *challengeFixture) addUser(t *testing.T, id, username string) {
	t.Helper()
	require.NoError(t, f.userRepo.Create(context.Background(), &model.User{
		ID: id, Username: username, Friends: []string{},
	}))
}

func TestChallengeCreateNotifiesTarget(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	challenge, err := f.challenges.Create(ctx, "u1", "u2", model.DifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, "pending", challenge.Status)

	notes, err := f.notifications.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "challenge", notes[0].Type)
	assert.Equal(t, challenge.ID, notes[0].RelatedID)
	assert.Contains(t, notes[0].Message, "ana")
}

func TestChallengeAcceptCreatesRoom(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	challenge, err := f.challenges.Create(ctx, "u1", "u2", model.DifficultyEasy)
	require.NoError(t, err)

	// Only the challenged user may accept.
	_, err = f.challenges.Accept(ctx, challenge.ID, "u1")
	assert.ErrorIs(t, err, ErrForbidden)

	room, err := f.challenges.Accept(ctx, challenge.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", room.HostID, "the challenger hosts")
	assert.Len(t, room.Players, 2)
	assert.Equal(t, model.RoomWaiting, room.Status)
	assert.Equal(t, model.DifficultyEasy, room.Difficulty)
	assert.NotEmpty(t, room.Puzzle)
	assert.NotEmpty(t, room.Solution)

	// The challenge and its notification are consumed.
	list, err := f.challenges.ListForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
	notes, err := f.notifications.ListForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestChallengeDecline(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	challenge, err := f.challenges.Create(ctx, "u1", "u2", model.DifficultyMedium)
	require.NoError(t, err)

	require.NoError(t, f.challenges.Decline(ctx, challenge.ID, "u2"))
	assert.ErrorIs(t, f.challenges.Decline(ctx, challenge.ID, "u2"), ErrChallengeNotFound)

	notes, err := f.notifications.ListForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, notes)
}
