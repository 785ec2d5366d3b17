package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, expiresAt, err := tm.GenerateToken(42, domain.RoleStaff)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	other := NewTokenManager("different", 15)

	token, _, err := tm.GenerateToken(42, domain.RoleUser)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}
