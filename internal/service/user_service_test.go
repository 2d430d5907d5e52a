package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careledger/careledger/internal/domain"
)

func newUserService(repo *mockUserRepo, t *testing.T) *UserService {
	auditSvc := newTestAuditService()
	t.Cleanup(auditSvc.Shutdown)
	return NewUserService(repo, auditSvc, zap.NewNop())
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newUserService(repo, t)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Username == "newnurse" && u.IsActive && u.PasswordHash != "s3cret-password"
	})).Return(nil)

	user, err := svc.CreateUser(context.Background(), &CreateUserCommand{
		Username: "newnurse",
		Password: "s3cret-password",
		Name:     "New Nurse",
		Role:     domain.RoleStaff,
	}, adminPrincipal())

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-password")))
	repo.AssertExpectations(t)
}

func TestCreateUserValidation(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newUserService(repo, t)

	tests := []struct {
		name string
		cmd  *CreateUserCommand
	}{
		{"missing username", &CreateUserCommand{Password: "longenough", Name: "X", Role: domain.RoleStaff}},
		{"short password", &CreateUserCommand{Username: "x", Password: "short", Name: "X", Role: domain.RoleStaff}},
		{"bad role", &CreateUserCommand{Username: "x", Password: "longenough", Name: "X", Role: "superuser"}},
		{"patient role without link", &CreateUserCommand{Username: "x", Password: "longenough", Name: "X", Role: domain.RolePatient}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.cmd, adminPrincipal())
			var validErr *ValidationError
			assert.ErrorAs(t, err, &validErr)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newUserService(repo, t)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUsernameTaken)

	_, err := svc.CreateUser(context.Background(), &CreateUserCommand{
		Username: "taken",
		Password: "longenough",
		Name:     "X",
		Role:     domain.RoleStaff,
	}, adminPrincipal())

	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newUserService(repo, t)

	caller := adminPrincipal()
	_, err := svc.DeleteUser(context.Background(), caller.UserID, caller)

	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestDeleteUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newUserService(repo, t)

	target := uuid.New()
	repo.On("SoftDelete", mock.Anything, target).Return(true, nil)

	removed, err := svc.DeleteUser(context.Background(), target, adminPrincipal())
	require.NoError(t, err)
	assert.True(t, removed)
}
