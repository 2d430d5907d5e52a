package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careledger/careledger/internal/domain"
)

type CreateUserCommand struct {
	Username string
	Password string
	Name     string
	Role     domain.Role
	// PatientID links a patient-role user to their own record.
	PatientID *uuid.UUID
}

type UserService struct {
	users    UserRepository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(users UserRepository, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{users: users, auditSvc: auditSvc, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, cmd *CreateUserCommand, caller *domain.Principal) (*domain.User, error) {
	if err := validateCreateUser(cmd); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(cmd.Username),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(cmd.Name),
		Role:         cmd.Role,
		PatientID:    cmd.PatientID,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Record(caller.UserID, domain.ActionCreateUser, "user", user.ID.String(),
		fmt.Sprintf("username=%s role=%s", user.Username, user.Role))

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", caller.UserID.String()),
	)

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser soft-deletes: the row stays so audit and history references
// remain resolvable. The bool reports whether a live user was found.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID, caller *domain.Principal) (bool, error) {
	if id == caller.UserID {
		return false, &ValidationError{Fields: []string{"cannot delete own account"}}
	}

	removed, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.auditSvc.Record(caller.UserID, domain.ActionDeleteUser, "user", id.String(), "")
	}
	return removed, nil
}

func validateCreateUser(cmd *CreateUserCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Username) == "" {
		errs = append(errs, "username is required")
	}
	if len(cmd.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if cmd.Role == domain.RolePatient && cmd.PatientID == nil {
		errs = append(errs, "patient-role users must be linked to a patient record")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
