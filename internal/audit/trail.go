package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Trail is the recording half of the audit pipeline. Record never blocks and
// never fails the request; the worker drains the buffer to the sinks.
type Trail struct {
	buffer *RingBuffer
}

func NewTrail(bufferSize int) *Trail {
	return &Trail{buffer: NewRingBuffer(bufferSize)}
}

// Record stamps and buffers an event.
func (t *Trail) Record(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	t.buffer.Enqueue(event)
}

// Worker drains the trail's buffer to the sinks on a fixed interval.
// A failed flush re-enqueues the batch; the ring buffer bounds the damage
// when a sink stays down.
type Worker struct {
	trail    *Trail
	sinks    []Sink
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewWorker(trail *Trail, sinks []Sink, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Worker{
		trail:    trail,
		sinks:    sinks,
		interval: interval,
		batch:    500,
		logger:   logger,
	}
}

// Run flushes until ctx is cancelled, then performs one final flush with a
// short grace period.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			w.Flush(flushCtx)
			return ctx.Err()
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush drains everything currently buffered and appends it to every sink.
func (w *Worker) Flush(ctx context.Context) {
	for {
		events := w.trail.buffer.Drain(w.batch)
		if len(events) == 0 {
			return
		}

		for _, sink := range w.sinks {
			if err := sink.Append(ctx, events); err != nil {
				w.logger.ErrorContext(ctx, "audit flush failed",
					"events", len(events),
					"error", err,
				)
				// Put the batch back; newest events win if the buffer fills.
				for _, event := range events {
					w.trail.buffer.Enqueue(event)
				}
				return
			}
		}
	}
}
