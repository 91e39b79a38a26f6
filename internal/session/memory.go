package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

type memoryEntry struct {
	sess      *models.WorkflowSession
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the Store interface, used in
// tests and single-process development. Expired entries behave exactly like
// absent ones.
type MemoryStore struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook for expiry behavior.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load retrieves a non-expired session snapshot.
func (s *MemoryStore) Load(ctx context.Context, userID string) (*models.WorkflowSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[userID]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return entry.sess.Clone(), nil
}

// Save stores a snapshot and resets its expiry.
func (s *MemoryStore) Save(ctx context.Context, userID string, sess *models.WorkflowSession, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{sess: sess.Clone(), expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete removes the session for a user id.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
