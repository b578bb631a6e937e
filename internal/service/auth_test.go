package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/security"
)

func newAuthFixture(t *testing.T, ownerSecret string) (AuthService, security.TokenManager) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(ownerSecret), bcrypt.MinCost)
	require.NoError(t, err)
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	return NewAuthService(tokens, string(hash)), tokens
}

func TestAuthService_ExchangeOwnerSecret(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthFixture(t, "hunter2-owner-secret")

	t.Run("Success", func(t *testing.T) {
		token, err := svc.ExchangeOwnerSecret(ctx, "admin", "hunter2-owner-secret")
		require.NoError(t, err)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.ParticipantID)
		assert.Equal(t, domain.RoleOwner, claims.Role)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := svc.ExchangeOwnerSecret(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_IssueParticipantToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthFixture(t, "hunter2-owner-secret")
	owner := domain.Caller{ID: "admin", Role: domain.RoleOwner}

	t.Run("Success", func(t *testing.T) {
		token, err := svc.IssueParticipantToken(ctx, owner, "alice")
		require.NoError(t, err)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.ParticipantID)
		assert.Equal(t, domain.RoleParticipant, claims.Role)
	})

	t.Run("NonOwner", func(t *testing.T) {
		caller := domain.Caller{ID: "bob", Role: domain.RoleParticipant}
		_, err := svc.IssueParticipantToken(ctx, caller, "alice")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("EmptyID", func(t *testing.T) {
		_, err := svc.IssueParticipantToken(ctx, owner, "")
		assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	})
}
