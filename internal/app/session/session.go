package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/courseportal/internal/app/models"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// Store keeps the server-side half of a login. The cookie carries only the ID.
type Store interface {
	Create(ctx context.Context, caller models.Caller) (string, error)
	Get(ctx context.Context, id string) (models.Caller, error)
	Delete(ctx context.Context, id string) error
}

type entry struct {
	caller    models.Caller
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-memory session store with an idle TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. Sessions expire after ttl without use.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores caller under a fresh random ID
func (s *MemoryStore) Create(_ context.Context, caller models.Caller) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[id.String()] = &entry{caller: caller, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id.String(), nil
}

// Get returns the caller stored under id and extends its lifetime
func (s *MemoryStore) Get(_ context.Context, id string) (models.Caller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.AnonymousCaller(), ErrSessionNotFound
	}
	now := s.now()
	if now.After(sess.expiresAt) {
		delete(s.sessions, id)
		return models.AnonymousCaller(), ErrSessionNotFound
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess.caller, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep evicts expired sessions and returns how many were removed
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
