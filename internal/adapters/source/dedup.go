package source

import (
	"context"
	"sync"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/pkg/metrics"
)

type fetchKey struct {
	season int
	round  int
}

// inflight is one fetch in progress; waiters block on done and then read the
// shared result.
type inflight struct {
	done chan struct{}
	data model.RaceData
	err  error
}

// Dedup wraps a Source so concurrent fetches for the same (season, round)
// share a single upstream call. Results are not cached: once the shared call
// returns and every waiter has its copy, the next fetch for the key goes
// upstream again.
type Dedup struct {
	upstream Source

	mu    sync.Mutex
	calls map[fetchKey]*inflight
}

// NewDedup wraps upstream with in-flight fetch dedup.
func NewDedup(upstream Source) *Dedup {
	return &Dedup{
		upstream: upstream,
		calls:    make(map[fetchKey]*inflight),
	}
}

// FetchRace fetches one race, joining an in-flight fetch for the same key
// when one exists. The joining caller still honors its own ctx: cancellation
// abandons the wait without cancelling the shared call.
func (d *Dedup) FetchRace(ctx context.Context, season, round int) (model.RaceData, error) {
	key := fetchKey{season, round}

	d.mu.Lock()
	if call, ok := d.calls[key]; ok {
		d.mu.Unlock()
		metrics.RecordFetchDeduped()
		select {
		case <-call.done:
			return call.data, call.err
		case <-ctx.Done():
			return model.RaceData{}, ctx.Err()
		}
	}

	call := &inflight{done: make(chan struct{})}
	d.calls[key] = call
	d.mu.Unlock()

	call.data, call.err = d.upstream.FetchRace(ctx, season, round)

	d.mu.Lock()
	delete(d.calls, key)
	d.mu.Unlock()
	close(call.done)

	return call.data, call.err
}
