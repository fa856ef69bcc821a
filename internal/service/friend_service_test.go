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

type friendFixture struct {
	friends  *FriendService
	userRepo repository.UserRepo
}

func newFriendFixture(t *testing.T) *friendFixture {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	userRepo := repository.NewUserRepo(db)
	return &friendFixture{
		friends:  NewFriendService(repository.NewFriendRequestRepo(db), userRepo),
		userRepo: userRepo,
	}
}

func (f *friendFixture) addUser(t *testing.T, id, username string) {
	t.Helper()
	require.NoError(t, f.userRepo.Create(context.Background(), &model.User{
		ID: id, Username: username, Friends: []string{},
	}))
}

func TestFriendRequestLifecycle(t *testing.T) {
	f := newFriendFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	req, err := f.friends.SendRequest(ctx, "u1", "ben")
	require.NoError(t, err)
	assert.Equal(t, "u1", req.FromUserID)
	assert.Equal(t, "u2", req.ToUserID)
	assert.Equal(t, "pending", req.Status)

	pending, err := f.friends.ListRequests(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Only the addressee may accept.
	assert.ErrorIs(t, f.friends.Accept(ctx, req.ID, "u1"), ErrForbidden)

	require.NoError(t, f.friends.Accept(ctx, req.ID, "u2"))

	// Both sides are linked.
	for _, id := range []string{"u1", "u2"} {
		list, err := f.friends.ListFriends(ctx, id)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Empty(t, list[0].Password)
	}

	// The request is consumed.
	pending, err = f.friends.ListRequests(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.ErrorIs(t, f.friends.Accept(ctx, req.ID, "u2"), ErrRequestNotFound)
}

func TestFriendRequestReject(t *testing.T) {
	f := newFriendFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	req, err := f.friends.SendRequest(ctx, "u1", "ben")
	require.NoError(t, err)
	require.NoError(t, f.friends.Reject(ctx, req.ID, "u2"))

	list, err := f.friends.ListFriends(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSendRequestUnknownUsername(t *testing.T) {
	f := newFriendFixture(t)
	f.addUser(t, "u1", "ana")

	_, err := f.friends.SendRequest(context.Background(), "u1", "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnfriendRemovesBothSides(t *testing.T) {
	f := newFriendFixture(t)
	ctx := context.Background()
	f.addUser(t, "u1", "ana")
	f.addUser(t, "u2", "ben")

	req, err := f.friends.SendRequest(ctx, "u1", "ben")
	require.NoError(t, err)
	require.NoError(t, f.friends.Accept(ctx, req.ID, "u2"))

	require.NoError(t, f.friends.Unfriend(ctx, "u1", "u2"))
	for _, id := range []string{"u1", "u2"} {
		list, err := f.friends.ListFriends(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
}
