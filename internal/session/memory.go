package session

import (
	"context"
	"sync"
	"time"

	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// MemoryStore is an in-process session store. Sessions expire lazily on Get.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session   *models.Session
	expiresAt time.Time
}

// NewMemoryStore creates an in-process store with the given TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores the session, resetting its TTL
func (s *MemoryStore) Put(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = memoryEntry{
		session:   session,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get resolves a token to its session
func (s *MemoryStore) Get(_ context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.session, nil
}

// Delete removes the session; deleting an absent token is not an error
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Ping always succeeds for the in-process store
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close discards all sessions
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]memoryEntry)
	return nil
}
