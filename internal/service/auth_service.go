package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/pkg/auth"
	"github.com/careledger/careledger/pkg/metrics"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthService is the access-control gate: it turns credentials into sessions
// and bearer tokens back into principals.
type AuthService struct {
	users    UserRepository
	tokens   *auth.TokenManager
	sessions auth.SessionStore
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAuthService(
	users UserRepository,
	tokens *auth.TokenManager,
	sessions auth.SessionStore,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		auditSvc: auditSvc,
		metrics:  collector,
		log:      log,
	}
}

// Login verifies the credential, opens a session and returns the signed
// token. The session and the token expire together.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Burn a bcrypt round so response time does not reveal whether the
		// username exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", zap.String("username", username))
		return nil, "", ErrInvalidCredentials
	}

	principal := &domain.Principal{
		SessionID: uuid.New(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		PatientID: user.PatientID,
	}

	token, expiresAt, err := s.tokens.Issue(principal)
	if err != nil {
		s.log.Error("failed to issue session token", zap.Error(err))
		return nil, "", fmt.Errorf("issuing session token: %w", err)
	}

	s.sessions.Put(principal.SessionID, principal, expiresAt)
	if s.metrics != nil {
		s.metrics.SessionsActive.Set(float64(s.sessions.Len()))
	}
	s.auditSvc.Record(user.ID, domain.ActionLogin, "session", principal.SessionID.String(), "")

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, token, nil
}

// Authenticate maps a bearer token to its principal. Both checks must pass:
// a validly signed token whose session was evicted is no longer a session.
func (s *AuthService) Authenticate(token string) (*domain.Principal, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, ErrUnauthenticated
		}
		return nil, ErrUnauthenticated
	}

	principal, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return principal, nil
}

// Logout evicts the session; the token is dead from this point even though
// its signature remains valid.
func (s *AuthService) Logout(principal *domain.Principal) {
	s.sessions.Evict(principal.SessionID)
	if s.metrics != nil {
		s.metrics.SessionsActive.Set(float64(s.sessions.Len()))
	}
	s.auditSvc.Record(principal.UserID, domain.ActionLogout, "session", principal.SessionID.String(), "")
}
