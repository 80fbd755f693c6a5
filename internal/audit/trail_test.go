package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRecordStampsEvents(t *testing.T) {
	trail := NewTrail(8)
	trail.Record(Event{Action: ActionAccessDenied, Path: "/admin"})

	events := trail.buffer.Drain(0)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestFlushAppendsToSink(t *testing.T) {
	trail := NewTrail(8)
	sink := NewMemorySink()
	worker := NewWorker(trail, []Sink{sink}, time.Second, testLogger())

	trail.Record(Event{Action: ActionAccessDenied, Path: "/admin"})
	trail.Record(Event{Action: ActionInterviewGranted, Path: "/candidate/interview/42"})

	worker.Flush(context.Background())

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ActionAccessDenied, events[0].Action)
	assert.Equal(t, 0, trail.buffer.Len())
}

type failingSink struct{ calls int }

func (s *failingSink) Append(context.Context, []Event) error {
	s.calls++
	return errors.New("broker down")
}

func TestFlushReenqueuesOnFailure(t *testing.T) {
	trail := NewTrail(8)
	sink := &failingSink{}
	worker := NewWorker(trail, []Sink{sink}, time.Second, testLogger())

	trail.Record(Event{Action: ActionAccessDenied, Path: "/admin"})
	worker.Flush(context.Background())

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, 1, trail.buffer.Len(), "failed batch stays buffered")
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	trail := NewTrail(8)
	sink := NewMemorySink()
	worker := NewWorker(trail, []Sink{sink}, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	trail.Record(Event{Action: ActionAccessDenied, Path: "/admin"})
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	// The final flush must have drained the buffer.
	assert.Len(t, sink.Events(), 1)
}
