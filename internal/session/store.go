// Package session persists workflow sessions keyed by user id. Sessions are
// stored and loaded as whole snapshots and expire after a fixed idle TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// TTL is the idle expiry for stored sessions, refreshed on every save.
const TTL = 12 * time.Hour

// ErrNotFound is returned when no session exists for a user id, either
// because none was saved or because it expired.
var ErrNotFound = errors.New("session not found")

// Store is the session persistence contract.
type Store interface {
	// Load retrieves the session snapshot for a user id.
	Load(ctx context.Context, userID string) (*models.WorkflowSession, error)
	// Save persists the snapshot and resets its TTL.
	Save(ctx context.Context, userID string, sess *models.WorkflowSession, ttl time.Duration) error
	// Delete removes the session for a user id.
	Delete(ctx context.Context, userID string) error
}
