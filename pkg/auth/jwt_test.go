package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(userID, "renter@example.com", RoleUser)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "renter@example.com", claims.Email)

	refresh, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.UserID)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	pair, err := m.GenerateTokenPair(uuid.New(), "a@b.c", RoleAgent)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTManager("one", time.Minute, time.Hour)
	verifier := NewJWTManager("two", time.Minute, time.Hour)
	pair, err := issuer.GenerateTokenPair(uuid.New(), "a@b.c", RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)
	pair, err := m.GenerateTokenPair(uuid.New(), "a@b.c", RoleUser)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAgent.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleUser.IsStaff())
	assert.False(t, Role("owner").IsValid())
}
