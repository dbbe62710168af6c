package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, application.RegisterRequest{
		Email:    "  Jane.Doe@Example.com ",
		FullName: "Jane Doe",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", registered.User.Email)
	assert.Equal(t, string(auth.RoleUser), registered.User.Role)
	require.NotNil(t, registered.Tokens)
	assert.NotEmpty(t, registered.Tokens.AccessToken)

	loggedIn, err := env.auth.Login(ctx, application.LoginRequest{Email: "jane.doe@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	refreshed, err := env.auth.Refresh(ctx, application.RefreshRequest{RefreshToken: loggedIn.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = env.auth.Refresh(ctx, application.RefreshRequest{RefreshToken: loggedIn.Tokens.AccessToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	profile, err := env.auth.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
}

func TestAuth_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, application.RegisterRequest{Email: "sam@example.com", FullName: "Sam", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, application.LoginRequest{Email: "sam@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.auth.Login(ctx, application.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, application.RegisterRequest{Email: "short@example.com", FullName: "Short", Password: "1234567"})
	assert.True(t, domain.IsValidation(err))

	_, err = env.auth.Register(ctx, application.RegisterRequest{Email: "not-an-email", FullName: "Bad", Password: "long-enough"})
	assert.True(t, domain.IsValidation(err))

	_, err = env.auth.Register(ctx, application.RegisterRequest{Email: "dup@example.com", FullName: "One", Password: "long-enough"})
	require.NoError(t, err)
	_, err = env.auth.Register(ctx, application.RegisterRequest{Email: "DUP@example.com", FullName: "Two", Password: "long-enough"})
	assert.True(t, domain.IsConflict(err))
}

func TestAuth_CreateUserIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := application.CreateUserRequest{
		Email:    "agent2@example.com",
		FullName: "Second Agent",
		Password: "agent-pass",
		Role:     string(auth.RoleAgent),
	}

	_, err := env.auth.CreateUser(ctx, actorOf(env.agent), req)
	assert.True(t, domain.IsForbidden(err))

	created, err := env.auth.CreateUser(ctx, actorOf(env.admin), req)
	require.NoError(t, err)
	assert.Equal(t, string(auth.RoleAgent), created.Role)

	req.Email = "root@example.com"
	req.Role = "superuser"
	_, err = env.auth.CreateUser(ctx, actorOf(env.admin), req)
	assert.True(t, domain.IsValidation(err))
}
