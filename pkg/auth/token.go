package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/domain"
)

var (
	ErrTokenExpired = errors.New("session token has expired")
	ErrTokenInvalid = errors.New("session token is invalid")
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
}

// TokenManager signs and validates session tokens. The token's jti is the
// session id held in the SessionStore, so possession of a validly signed
// token is necessary but not sufficient: the session must still be live.
type TokenManager struct {
	cfg config.SessionConfig
}

func NewTokenManager(cfg config.SessionConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

// Issue signs a token for the principal. Expiry is the session TTL from
// config; the same instant bounds the server-side session entry.
func (m *TokenManager) Issue(p *domain.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.cfg.TTL)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.SessionID.String(),
			Issuer:    m.cfg.Issuer,
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		},
		Username:  p.Username,
		Role:      string(p.Role),
		PatientID: p.PatientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Parse validates the signature and expiry and returns the session id.
func (m *TokenManager) Parse(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return sessionID, nil
}
