package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func newTestAuthService() (*AuthService, *memUserRepo) {
	users := newMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", 15)
	// Minimum cost keeps the hash fast in tests.
	return NewAuthService(users, tokens, 4, zap.NewNop()), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe",
		Name:     "J. Doe",
		Email:    "JDoe@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "jdoe@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	result, err := svc.Login(context.Background(), "jdoe", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe", Name: "J. Doe", Email: "jdoe@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	for _, attempt := range []struct{ username, password string }{
		{"jdoe", "wrong-password"},
		{"nobody", "correct-horse"},
	} {
		_, err := svc.Login(context.Background(), attempt.username, attempt.password)
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe", Name: "J. Doe", Email: "jdoe@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "jdoe", Name: "Other", Email: "other@example.com", Password: "correct-horse",
	})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "other", Name: "Other", Email: "jdoe@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
}

func TestPromoteToStaffIsIdempotent(t *testing.T) {
	svc, users := newTestAuthService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe", Name: "J. Doe", Email: "jdoe@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	promoted, err := svc.PromoteToStaff(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, promoted.Role)

	// Promoting again succeeds and changes nothing.
	promoted, err = svc.PromoteToStaff(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, promoted.Role)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, stored.Role)
}

func TestPromoteUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.PromoteToStaff(context.Background(), 404)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
