// Package store persists session records. Two implementations share one
// interface: an in-memory map for single-instance and test use, and Redis for
// deployments where multiple gateway instances share session state.
package store

import (
	"context"
	"time"

	"talentgate/internal/session"
)

// Store is the session persistence contract. Implementations return sentinel
// errors (sentinel.ErrNotFound, sentinel.ErrRevoked) so callers can branch
// without knowing the backend.
type Store interface {
	// Create persists a new session record.
	Create(ctx context.Context, s *session.Session) error

	// FindByID returns the session record, including expired or revoked ones;
	// liveness is the caller's decision.
	FindByID(ctx context.Context, id string) (*session.Session, error)

	// Touch updates the session's last-seen timestamp.
	Touch(ctx context.Context, id string, at time.Time) error

	// Revoke marks the session revoked. Revoking an already-revoked session
	// returns sentinel.ErrRevoked.
	Revoke(ctx context.Context, id string, at time.Time) error

	// ListByUser returns all live sessions for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*session.Session, error)
}
