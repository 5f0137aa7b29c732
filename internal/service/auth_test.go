package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
)

func TestRegister(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	user, pair, err := env.auth.Register(ctx, "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Registration provisions the default shelf.
	shelves, err := env.shelves.ListShelves(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, shelves, 1)
	assert.True(t, shelves[0].IsDefault)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	_, _, err = env.auth.Register(ctx, "ALICE", "other@example.com", "correct horse battery")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestLogin(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice")

	user, pair, err := env.auth.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "alice")

	_, _, err := env.auth.Login(ctx, "alice", "wrong")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLogin_UnknownUserIndistinguishable(t *testing.T) {
	env := setupServiceTest(t)

	// An unknown username reports the same error as a wrong password.
	_, _, err := env.auth.Login(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestRefresh_RotatesToken(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, pair, err := env.auth.Register(ctx, "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	rotated, err := env.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed token is dead.
	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestLogout_Idempotent(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, pair, err := env.auth.Register(ctx, "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, pair.RefreshToken))
	require.NoError(t, env.auth.Logout(ctx, pair.RefreshToken))

	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
}
