// Package ingest moves raw telemetry batches from the intake surface into
// the store: a bounded in-memory queue feeds a pool of workers that run the
// normalization boundary and persist what survives it.
package ingest

import (
	"context"
	"sync"

	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
	"github.com/sourabhpal/f1-dashboard/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Batch is one raw ingestion unit for a season. Round and the timing slices
// are zero for season-level standings batches; DriverEntries is empty for
// per-race timing batches. Mixed batches are allowed.
type Batch struct {
	ID            string // uuid assigned at intake
	Season        int
	Round         int
	TotalLaps     int
	FieldSize     int
	DriverEntries []normalize.Raw
	Stints        []normalize.Raw
	Positions     []normalize.Raw
	Pace          []normalize.Raw
}

// Queue provides non-blocking enqueue and channel-based dequeue of batches.
type Queue interface {
	// Enqueue adds a batch. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, b Batch) bool

	// Dequeue returns the channel workers consume; it closes with the queue.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the number of queued batches.
	Len(ctx context.Context) int

	// Close stops intake and drains consumers.
	Close() error
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	batches chan Batch

	mu     sync.RWMutex
	closed bool
}

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*queueConfig)

type queueConfig struct {
	capacity int
}

// WithCapacity bounds the number of queued batches.
func WithCapacity(n int) QueueOption {
	return func(c *queueConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewInMemoryQueue creates a bounded in-memory batch queue.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	cfg := queueConfig{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	metrics.UpdateIngestQueueSize(0)
	return &InMemoryQueue{batches: make(chan Batch, cfg.capacity)}
}

// Enqueue adds a batch without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.batches <- b:
		metrics.UpdateIngestQueueSize(len(q.batches))
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue full
	}
}

// Dequeue returns the channel workers consume from.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Batch {
	return q.batches
}

// Len returns the number of queued batches.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.batches)
}

// Close stops intake; workers drain what remains and exit.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.batches)
	q.closed = true
	return nil
}
