package ingest

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
	"github.com/sourabhpal/f1-dashboard/pkg/logger"
	"github.com/sourabhpal/f1-dashboard/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Writer is the slice of the store workers need.
type Writer interface {
	PutSeasonEntries(ctx context.Context, season int, entries []model.DriverPointEntry) error
	PutRace(ctx context.Context, data model.RaceData) error
}

// Worker normalizes queued batches and writes the surviving records.
type Worker struct {
	queue  Queue
	writer Writer
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates one ingest worker.
func NewWorker(queue Queue, writer Writer, name string) *Worker {
	if name == "" {
		name = "ingest"
	}
	return &Worker{
		queue:    queue,
		writer:   writer,
		name:     name,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named(name),
	}
}

// Run consumes batches until ctx is cancelled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	batches := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if err := w.process(ctx, batch); err != nil {
				w.logger.Error(ctx, "batch ingest failed",
					logger.String("batchID", batch.ID),
					logger.Int("season", batch.Season),
					logger.Error(err),
				)
			}
			metrics.UpdateIngestQueueSize(w.queue.Len(ctx))
		}
	}
}

// Shutdown stops the worker, waiting up to the shutdown timeout.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// process runs the normalization boundary over one batch and persists the
// result. Rejected records are logged and counted, never fatal.
func (w *Worker) process(ctx context.Context, batch Batch) error {
	if len(batch.DriverEntries) > 0 {
		res := normalize.DriverEntries(batch.DriverEntries)
		w.logRejections(ctx, batch, "driver_points", res.Rejected)
		if err := w.writer.PutSeasonEntries(ctx, batch.Season, res.Records); err != nil {
			return fmt.Errorf("store season %d entries: %w", batch.Season, err)
		}
	}

	if len(batch.Stints) == 0 && len(batch.Positions) == 0 && len(batch.Pace) == 0 {
		return nil
	}
	if batch.Round < 1 {
		// Timing records are keyed by (season, round); without a round they
		// could never be queried back, so drop them rather than storing
		// unreachable data.
		w.logger.Warn(ctx, "timing records on season-level batch skipped",
			logger.String("batchID", batch.ID),
			logger.Int("season", batch.Season),
		)
		return nil
	}

	data := model.RaceData{
		Season:    batch.Season,
		Round:     batch.Round,
		TotalLaps: batch.TotalLaps,
		Teams:     normalize.PaceTeams(batch.Pace),
	}
	stintRes := normalize.StintRecords(batch.Stints)
	w.logRejections(ctx, batch, "stints", stintRes.Rejected)
	data.Stints = stintRes.Records

	posRes := normalize.PositionSamples(batch.Positions, batch.FieldSize)
	w.logRejections(ctx, batch, "positions", posRes.Rejected)
	data.Positions = posRes.Records

	paceRes := normalize.PaceSamples(batch.Pace)
	w.logRejections(ctx, batch, "pace", paceRes.Rejected)
	data.Pace = paceRes.Records

	if err := w.writer.PutRace(ctx, data); err != nil {
		return fmt.Errorf("store race %d/%d: %w", batch.Season, batch.Round, err)
	}
	return nil
}

func (w *Worker) logRejections(ctx context.Context, batch Batch, kind string, rejected []types.Rejection) {
	if len(rejected) == 0 {
		return
	}
	metrics.RecordRejectedRecords(kind, len(rejected))
	for _, r := range rejected {
		w.logger.Warn(ctx, "record rejected",
			logger.String("batchID", batch.ID),
			logger.String("kind", kind),
			logger.Int("index", r.Index),
			logger.String("field", r.Field),
			logger.String("reason", r.Reason),
		)
	}
}

// Pool runs a fixed set of ingest workers over one queue.
type Pool struct {
	workers []*Worker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount ingest workers.
func NewPool(workerCount int, queue Queue, writer Writer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("ingest-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(queue, writer, "ingest-"+strconv.Itoa(i))
	}
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop closes the queue and waits for the workers to drain.
func (p *Pool) Stop() {
	_ = p.queue.Close()
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
