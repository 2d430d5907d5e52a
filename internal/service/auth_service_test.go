package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/pkg/auth"
)

func newAuthFixture(t *testing.T, ttl time.Duration) (*AuthService, *mockUserRepo, *auth.MemorySessionStore) {
	t.Helper()

	users := new(mockUserRepo)
	sessions := auth.NewMemorySessionStore()
	t.Cleanup(sessions.Close)

	tokens := auth.NewTokenManager(config.SessionConfig{
		Secret: "unit-test-secret-0123456789abcdef",
		TTL:    ttl,
		Issuer: "careledger-test",
	})

	auditSvc := newTestAuditService()
	t.Cleanup(auditSvc.Shutdown)

	svc := NewAuthService(users, tokens, sessions, auditSvc, nil, zap.NewNop())
	return svc, users, sessions
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	svc, users, sessions := newAuthFixture(t, time.Hour)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "drsmith",
		PasswordHash: hashPassword(t, "correct horse"),
		Name:         "Dr. Smith",
		Role:         domain.RoleStaff,
		IsActive:     true,
	}
	users.On("GetByUsername", mock.Anything, "drsmith").Return(user, nil)

	got, token, err := svc.Login(context.Background(), "drsmith", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, sessions.Len())

	principal, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, domain.RoleStaff, principal.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, sessions := newAuthFixture(t, time.Hour)

	users.On("GetByUsername", mock.Anything, "drsmith").Return(&domain.User{
		ID:           uuid.New(),
		Username:     "drsmith",
		PasswordHash: hashPassword(t, "correct horse"),
		Role:         domain.RoleStaff,
		IsActive:     true,
	}, nil)

	_, _, err := svc.Login(context.Background(), "drsmith", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, sessions.Len())
}

func TestLoginUnknownUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t, time.Hour)

	users.On("GetByUsername", mock.Anything, "nobody").Return(nil, domain.ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t, time.Hour)

	users.On("GetByUsername", mock.Anything, "former").Return(&domain.User{
		ID:           uuid.New(),
		Username:     "former",
		PasswordHash: hashPassword(t, "whatever"),
		Role:         domain.RoleStaff,
		IsActive:     false,
	}, nil)

	_, _, err := svc.Login(context.Background(), "former", "whatever")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, users, _ := newAuthFixture(t, -time.Minute)

	users.On("GetByUsername", mock.Anything, "drsmith").Return(&domain.User{
		ID:           uuid.New(),
		Username:     "drsmith",
		PasswordHash: hashPassword(t, "pw"),
		Role:         domain.RoleStaff,
		IsActive:     true,
	}, nil)

	_, token, err := svc.Login(context.Background(), "drsmith", "pw")
	require.NoError(t, err)

	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutKillsValidToken(t *testing.T) {
	svc, users, sessions := newAuthFixture(t, time.Hour)

	users.On("GetByUsername", mock.Anything, "drsmith").Return(&domain.User{
		ID:           uuid.New(),
		Username:     "drsmith",
		PasswordHash: hashPassword(t, "pw"),
		Role:         domain.RoleStaff,
		IsActive:     true,
	}, nil)

	_, token, err := svc.Login(context.Background(), "drsmith", "pw")
	require.NoError(t, err)

	principal, err := svc.Authenticate(token)
	require.NoError(t, err)

	svc.Logout(principal)
	assert.Equal(t, 0, sessions.Len())

	// The signature is still valid, but the session is gone.
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t, time.Hour)

	_, err := svc.Authenticate("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
