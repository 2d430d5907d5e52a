package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careledger/careledger/internal/domain"
)

func newTestPrincipal() *domain.Principal {
	return &domain.Principal{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "drsmith",
		Role:      domain.RoleStaff,
	}
}

func TestMemorySessionStorePutGet(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	p := newTestPrincipal()
	store.Put(p.SessionID, p, time.Now().Add(time.Hour))

	got, ok := store.Get(p.SessionID)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStoreUnknownID(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	_, ok := store.Get(uuid.New())
	assert.False(t, ok)
}

func TestMemorySessionStoreEvict(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	p := newTestPrincipal()
	store.Put(p.SessionID, p, time.Now().Add(time.Hour))
	store.Evict(p.SessionID)

	_, ok := store.Get(p.SessionID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStoreExpiredOnRead(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	p := newTestPrincipal()
	store.Put(p.SessionID, p, time.Now().Add(-time.Second))

	_, ok := store.Get(p.SessionID)
	assert.False(t, ok)
	// Lazy eviction removed the entry too.
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStoreOverwrite(t *testing.T) {
	store := NewMemorySessionStore()
	defer store.Close()

	p := newTestPrincipal()
	store.Put(p.SessionID, p, time.Now().Add(-time.Second))
	store.Put(p.SessionID, p, time.Now().Add(time.Hour))

	_, ok := store.Get(p.SessionID)
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}
