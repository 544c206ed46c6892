package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/infutrix/backoffice-api/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds at most one live session record per key. Set
// overwrites; Delete of a missing key is not an error. Extend resets the
// expiry only while the stored record still carries sessionID, and reports
// ErrSessionNotFound otherwise, so it never recreates a deleted or replaced
// session.
type SessionStore interface {
	Set(ctx context.Context, key string, record domain.SessionUser, ttl time.Duration) error
	Get(ctx context.Context, key string) (*domain.SessionUser, error)
	Extend(ctx context.Context, key, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type sessionEntry struct {
	record    domain.SessionUser
	expiresAt time.Time
}

type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]sessionEntry
	now  func() time.Time
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		data: make(map[string]sessionEntry),
		now:  time.Now,
	}
}

// WithClock replaces the expiry clock. Intended for tests.
func (s *InMemorySessionStore) WithClock(now func() time.Time) *InMemorySessionStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *InMemorySessionStore) Set(_ context.Context, key string, record domain.SessionUser, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = sessionEntry{record: record, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemorySessionStore) Get(_ context.Context, key string) (*domain.SessionUser, error) {
	s.mu.RLock()
	entry, ok := s.data[key]
	now := s.now()
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !now.Before(entry.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expiresAt == entry.expiresAt {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	rec := entry.record
	return &rec, nil
}

func (s *InMemorySessionStore) Extend(_ context.Context, key, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.data[key]
	now := s.now()
	if !ok || !now.Before(entry.expiresAt) || entry.record.SessionID != sessionID {
		return ErrSessionNotFound
	}
	entry.expiresAt = now.Add(ttl)
	s.data[key] = entry
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
