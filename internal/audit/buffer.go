package audit

import "sync"

// RingBuffer is a bounded, thread-safe buffer for audit events.
// When full, the oldest events are dropped to make room for new ones: the
// gate must never block a request on audit backpressure.
type RingBuffer struct {
	mu       sync.Mutex
	events   []Event
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int

	dropped int64
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 10000
	}
	return &RingBuffer{
		events:   make([]Event, capacity),
		capacity: capacity,
	}
}

// Enqueue adds an event, dropping the oldest if necessary.
func (b *RingBuffer) Enqueue(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.capacity {
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		b.dropped++
	}

	b.events[b.head] = event
	b.head = (b.head + 1) % b.capacity
	b.count++
}

// Drain removes and returns up to max events, oldest first.
func (b *RingBuffer) Drain(max int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.count
	if max > 0 && n > max {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.events[b.tail])
		b.tail = (b.tail + 1) % b.capacity
		b.count--
	}
	return out
}

// Len returns the number of buffered events.
func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns how many events were discarded because the buffer was full.
func (b *RingBuffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
