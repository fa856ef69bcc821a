package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuarena/internal/repository"
	"sudokuarena/internal/store"
)

func newAuthService(t *testing.T, secret string) *AuthService {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewAuthService(repository.NewUserRepo(db), []byte(secret))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t, "test-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, "ana", "hunter2", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana", resp.User.Username)
	assert.Empty(t, resp.User.Password, "the hash never leaves the service")
	assert.Equal(t, 1, resp.User.Level)
	assert.NotEmpty(t, resp.Token)

	logged, err := svc.Login(ctx, "ana", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, logged.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana", "hunter2", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ana", "other", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// Uniqueness ignores case.
	_, err = svc.Register(ctx, "ANA", "other", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRejectsBlankCredentials(t *testing.T) {
	svc := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "pw", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Register(ctx, "ana", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana", "hunter2", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc := newAuthService(t, "test-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, "ana", "hunter2", "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Username)

	_, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is rejected.
	other := newAuthService(t, "another-secret")
	foreign, err := other.Register(ctx, "ben", "pw123", "")
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
