package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/domain"
)

// SessionStore maps a session id to its authenticated principal. The backing
// implementation is an injection point, not a contract: the in-memory store
// below is the default, an external cache would satisfy the same interface.
type SessionStore interface {
	Get(id uuid.UUID) (*domain.Principal, bool)
	Put(id uuid.UUID, p *domain.Principal, expiresAt time.Time)
	Evict(id uuid.UUID)
	Len() int
}

type sessionEntry struct {
	principal *domain.Principal
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in a mutex-guarded map. Expired entries
// are rejected on read and reaped by a background sweeper.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]sessionEntry
	stop     chan struct{}
	stopOnce sync.Once
}

const sweepInterval = 5 * time.Minute

func NewMemorySessionStore() *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[uuid.UUID]sessionEntry),
		stop:     make(chan struct{}),
	}
	go s.sweeper()
	return s
}

func (s *MemorySessionStore) Get(id uuid.UUID) (*domain.Principal, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.Evict(id)
		return nil, false
	}
	return entry.principal, true
}

func (s *MemorySessionStore) Put(id uuid.UUID, p *domain.Principal, expiresAt time.Time) {
	s.mu.Lock()
	s.sessions[id] = sessionEntry{principal: p, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *MemorySessionStore) Evict(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemorySessionStore) sweeper() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
