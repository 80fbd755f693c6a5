package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"talentgate/internal/session"
	"talentgate/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a mutex-guarded map. Suitable for a single
// gateway instance and for tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*session.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *InMemoryStore) Touch(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	// Last-seen only moves forward; concurrent touches must not regress it.
	if at.After(sess.LastSeenAt) {
		sess.LastSeenAt = at
	}
	return nil
}

func (s *InMemoryStore) Revoke(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if sess.RevokedAt != nil {
		return sentinel.ErrRevoked
	}
	sess.RevokedAt = &at
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var out []*session.Session
	for _, sess := range s.sessions {
		if sess.UserID != userID || !sess.Active(now) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
