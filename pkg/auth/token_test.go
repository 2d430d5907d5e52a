package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/domain"
)

func testSessionConfig(ttl time.Duration) config.SessionConfig {
	return config.SessionConfig{
		Secret: "test-secret-0123456789-0123456789",
		TTL:    ttl,
		Issuer: "careledger-test",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSessionConfig(time.Hour))
	p := newTestPrincipal()

	token, expiresAt, err := m.Issue(p)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	sessionID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p.SessionID, sessionID)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager(testSessionConfig(-time.Minute))
	p := newTestPrincipal()

	token, _, err := m.Issue(p)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSessionConfig(time.Hour))
	verifier := NewTokenManager(config.SessionConfig{
		Secret: "a-completely-different-secret-value",
		TTL:    time.Hour,
		Issuer: "careledger-test",
	})

	token, _, err := issuer.Issue(newTestPrincipal())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongIssuer(t *testing.T) {
	cfg := testSessionConfig(time.Hour)
	issuer := NewTokenManager(cfg)

	cfg.Issuer = "someone-else"
	verifier := NewTokenManager(cfg)

	token, _, err := issuer.Issue(newTestPrincipal())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager(testSessionConfig(time.Hour))

	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCarriesPatientLink(t *testing.T) {
	m := NewTokenManager(testSessionConfig(time.Hour))

	patientID := uuid.New()
	p := &domain.Principal{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "portal-user",
		Role:      domain.RolePatient,
		PatientID: &patientID,
	}

	token, _, err := m.Issue(p)
	require.NoError(t, err)

	sessionID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p.SessionID, sessionID)
}
