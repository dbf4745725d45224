package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"central-lost-found/backend/internal/session/domain"
)

// MemoryStore is an in-memory Store. Sessions live until expired or until the process exits.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]*domain.Session
	ttl  time.Duration
	nowF func() time.Time
}

// NewMemoryStore returns an in-memory store. ttl of zero means sessions never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]*domain.Session),
		ttl:  ttl,
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new session under a random token.
func (s *MemoryStore) Create(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	sess := newSession(identity, s.nowF(), s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.Token] = sess
	out := *sess
	return &out, nil
}

// Lookup returns a copy of the session for token, or nil when it is missing or expired.
func (s *MemoryStore) Lookup(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.m[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if sess.Expired(s.nowF()) {
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return nil, nil
	}
	out := *sess
	return &out, nil
}

// Expire deletes token.
func (s *MemoryStore) Expire(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, token)
	return nil
}

// Len returns the number of stored sessions, including ones not yet swept after expiry.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func newSession(identity domain.Identity, now time.Time, ttl time.Duration) *domain.Session {
	sess := &domain.Session{
		Token:     uuid.NewString(),
		Identity:  identity,
		CreatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		sess.ExpiresAt = &exp
	}
	return sess
}
