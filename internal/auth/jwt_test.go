package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewTokenService("test-signing-key", time.Hour, NewMemoryRevocationList())

	t.Run("user token", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateUserToken(userID, "USER")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.SubjectID)
		assert.Equal(t, "user", claims.Audience)
		assert.Equal(t, "USER", claims.Role)
	})

	t.Run("admin token carries its own audience", func(t *testing.T) {
		adminID := uuid.New()
		token, err := svc.GenerateAdminToken(adminID, "ADMIN")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Audience)
		assert.Equal(t, "ADMIN", claims.Role)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong signing key rejected", func(t *testing.T) {
		other := NewTokenService("other-key", time.Hour, nil)
		token, err := other.GenerateUserToken(uuid.New(), "USER")
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		shortLived := NewTokenService("test-signing-key", -time.Minute, nil)
		token, err := shortLived.GenerateUserToken(uuid.New(), "USER")
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.Error(t, err)
	})
}

func TestRevocation(t *testing.T) {
	ctx := context.Background()
	revocation := NewMemoryRevocationList()
	svc := NewTokenService("test-signing-key", time.Hour, revocation)

	userID := uuid.New()
	token, err := svc.GenerateUserToken(userID, "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, revocation.Revoke(ctx, userID.String(), time.Hour))

	_, err = svc.ValidateToken(ctx, token)
	assert.Error(t, err)

	t.Run("entries expire with the ttl", func(t *testing.T) {
		other := uuid.NewString()
		require.NoError(t, revocation.Revoke(ctx, other, -time.Second))
		revoked, err := revocation.IsRevoked(ctx, other)
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
