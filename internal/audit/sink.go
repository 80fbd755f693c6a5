package audit

import (
	"context"
	"sync"
)

// Sink persists drained audit events. Implementations must tolerate being
// called with the same batch twice; the worker retries a failed flush.
type Sink interface {
	Append(ctx context.Context, events []Event) error
}

// MemorySink keeps events in memory. Used in tests and as the fallback when
// neither Kafka nor Postgres is configured.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
