// Package app hosts the query facade the presentation layer calls and the
// ingestion wiring that feeds the store behind it.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/ingest"
	"github.com/sourabhpal/f1-dashboard/internal/adapters/repository"
	"github.com/sourabhpal/f1-dashboard/internal/adapters/source"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
	"github.com/sourabhpal/f1-dashboard/internal/domain/standings"
	"github.com/sourabhpal/f1-dashboard/internal/domain/stints"
	"github.com/sourabhpal/f1-dashboard/internal/domain/timeline"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
	"github.com/sourabhpal/f1-dashboard/pkg/logger"
	"github.com/sourabhpal/f1-dashboard/pkg/metrics"
)

// Kind selects which derived view a Derive call returns.
type Kind string

// The closed set of derivable views.
const (
	KindDriverStandings      Kind = "driver_standings"
	KindConstructorStandings Kind = "constructor_standings"
	KindTireStrategy         Kind = "tire_strategy"
	KindPositionTimeline     Kind = "position_timeline"
	KindTeamPace             Kind = "team_pace"
)

// Query is one derive request. Season is always required; Round is required
// for the per-race kinds; Driver optionally narrows a position timeline.
type Query struct {
	Kind   Kind
	Season int
	Round  int
	Driver string
}

// Result is the immutable snapshot a Derive call returns. Exactly the field
// matching the query kind is populated; an empty-but-valid request populates
// it with the zero-valued shape so "no data" stays distinguishable from an
// error.
type Result struct {
	Kind                 Kind                        `json:"kind"`
	Season               int                         `json:"season"`
	Round                int                         `json:"round,omitempty"`
	DriverStandings      []types.DriverStanding      `json:"driver_standings,omitempty"`
	ConstructorStandings []types.ConstructorStanding `json:"constructor_standings,omitempty"`
	Strategy             *types.StrategyChart        `json:"strategy,omitempty"`
	Positions            []types.PositionSeries      `json:"positions,omitempty"`
	Pace                 []types.PaceSeries          `json:"pace,omitempty"`
}

// Service implements the query facade over the store, plus the ingestion
// path that fills it.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	telemetry   source.Source
	ingestQueue ingest.Queue
	ingestPool  *ingest.Pool

	queueSize   int
	workerCount int
	fieldSize   int
	fetchDedup  bool
	now         func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistent store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTelemetry sets the telemetry source used to backfill races the store
// does not hold. Without one, unknown races derive to empty views.
func WithTelemetry(src source.Source) Option {
	return func(s *Service) {
		s.telemetry = src
	}
}

// WithIngestQueueSize bounds the ingest batch queue.
func WithIngestQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithIngestWorkerCount sets the number of normalization workers.
func WithIngestWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithFieldSize bounds valid race positions for batches that do not carry
// their own field size.
func WithFieldSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.fieldSize = size
		}
	}
}

// WithFetchDedup toggles sharing of in-flight telemetry fetches.
func WithFetchDedup(enabled bool) Option {
	return func(s *Service) {
		s.fetchDedup = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the wall clock used for the completed-race check.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:   1024,
		workerCount: 4,
		fieldSize:   20,
		fetchDedup:  true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the store, telemetry dedup, and ingest pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("derive")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.telemetry != nil && s.fetchDedup {
		s.telemetry = source.NewDedup(s.telemetry)
	}

	s.ingestQueue = ingest.NewInMemoryQueue(ingest.WithCapacity(s.queueSize))
	s.ingestPool = ingest.NewPool(s.workerCount, s.ingestQueue, s.store)
	s.ingestPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "derivation service started",
		logger.Int("ingestWorkers", s.workerCount),
		logger.Int("ingestQueueSize", s.queueSize),
		logger.Bool("fetchDedup", s.fetchDedup),
	)
	return nil
}

// Stop drains the ingest pool and stops the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.ingestPool.Stop()
	s.started = false
	s.logger.Info(context.Background(), "derivation service stopped")
}

// Derive routes a query to the matching aggregator and returns an immutable
// result snapshot. Requests missing a required key fail with a typed
// ErrMissingParameter; valid requests with no data return the zero-valued
// shape of the right kind.
func (s *Service) Derive(ctx context.Context, q Query) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDeriveDuration(string(q.Kind), float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordDeriveRequest(string(q.Kind))

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Result{}, ErrNotStarted
	}

	if q.Season <= 0 {
		return Result{}, missingParam("season")
	}

	switch q.Kind {
	case KindDriverStandings, KindConstructorStandings:
		return s.deriveStandings(ctx, q)
	case KindTireStrategy, KindPositionTimeline, KindTeamPace:
		if q.Round <= 0 {
			return Result{}, missingParam("round")
		}
		return s.deriveRaceView(ctx, q)
	default:
		return Result{}, ErrUnknownKind
	}
}

func (s *Service) deriveStandings(ctx context.Context, q Query) (Result, error) {
	entries, err := s.store.SeasonEntries(ctx, q.Season)
	if err != nil {
		return Result{}, err
	}

	res := Result{Kind: q.Kind, Season: q.Season}
	if q.Kind == KindDriverStandings {
		res.DriverStandings = standings.RankDrivers(entries)
	} else {
		res.ConstructorStandings = standings.RankConstructors(entries)
	}
	return res, nil
}

func (s *Service) deriveRaceView(ctx context.Context, q Query) (Result, error) {
	res := Result{Kind: q.Kind, Season: q.Season, Round: q.Round}

	data, ok, err := s.raceData(ctx, q.Season, q.Round)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return emptyRaceView(res), nil
	}

	switch q.Kind {
	case KindTireStrategy:
		chart, rejected := stints.BuildChart(data.Stints, data.TotalLaps)
		if len(rejected) > 0 {
			metrics.RecordRejectedRecords("stints", len(rejected))
			s.logger.Warn(ctx, "overlapping stints rejected",
				logger.Int("season", q.Season),
				logger.Int("round", q.Round),
				logger.Int("count", len(rejected)),
			)
		}
		res.Strategy = &chart
	case KindPositionTimeline:
		// Seed with the drivers the stint records know about, so a driver
		// whose position samples were all dropped still shows up with an
		// empty series.
		roster := make([]string, 0)
		seen := make(map[string]struct{})
		for _, st := range data.Stints {
			if _, ok := seen[st.Driver]; !ok {
				seen[st.Driver] = struct{}{}
				roster = append(roster, st.Driver)
			}
		}
		series := timeline.Positions(data.Positions, roster)
		if q.Driver != "" {
			series = filterDriver(series, q.Driver)
		}
		res.Positions = series
	case KindTeamPace:
		// Teams carries every identity the pace feed mentioned, so a team
		// whose samples were all dropped still shows up with an empty series.
		res.Pace = timeline.Pace(data.Pace, data.Teams)
	}
	return res, nil
}

// raceData returns the race snapshot, backfilling from telemetry when the
// store does not hold the round yet. A round whose scheduled race date (UTC)
// is still in the future has no derivable data yet: the conservative policy
// is to skip the telemetry fetch entirely and report no data.
func (s *Service) raceData(ctx context.Context, season, round int) (model.RaceData, bool, error) {
	if sched, err := s.store.Schedule(ctx, season, round); err == nil {
		if !sched.Completed(s.now()) {
			return model.RaceData{}, false, nil
		}
	}

	data, err := s.store.Race(ctx, season, round)
	if err == nil {
		return data, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.RaceData{}, false, err
	}

	if s.telemetry == nil {
		return model.RaceData{}, false, nil
	}
	fetched, err := s.telemetry.FetchRace(ctx, season, round)
	if err != nil {
		if errors.Is(err, source.ErrUnavailable) {
			return model.RaceData{}, false, nil
		}
		return model.RaceData{}, false, err
	}
	fetched.Season, fetched.Round = season, round
	if err := s.store.PutRace(ctx, fetched); err != nil {
		return model.RaceData{}, false, err
	}
	return fetched, true, nil
}

// emptyRaceView fills the kind's zero-valued shape so callers can tell "no
// data" apart from a malformed request.
func emptyRaceView(res Result) Result {
	switch res.Kind {
	case KindTireStrategy:
		res.Strategy = &types.StrategyChart{Drivers: []types.StintSeries{}}
	case KindPositionTimeline:
		res.Positions = []types.PositionSeries{}
	case KindTeamPace:
		res.Pace = []types.PaceSeries{}
	}
	return res
}

func filterDriver(series []types.PositionSeries, driver string) []types.PositionSeries {
	want := strings.ToLower(normalize.CanonicalDriverName(driver))
	out := make([]types.PositionSeries, 0, 1)
	for _, s := range series {
		if strings.ToLower(s.Driver) == want {
			out = append(out, s)
		}
	}
	return out
}

// EnqueueBatch submits a raw batch for asynchronous normalization and
// storage. Returns false on backpressure. The assigned batch id comes back
// to the caller for correlating rejection diagnostics in the logs.
func (s *Service) EnqueueBatch(ctx context.Context, batch ingest.Batch) (string, bool) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", false
	}

	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	return batch.ID, s.ingestQueue.Enqueue(ctx, batch)
}

// PutSchedule records a round's race date; the facade uses it for the
// completed-race policy.
func (s *Service) PutSchedule(ctx context.Context, sched model.RaceSchedule) error {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return ErrNotStarted
	}
	return store.PutSchedule(ctx, sched)
}

// Seasons lists seasons with any ingested data.
func (s *Service) Seasons(ctx context.Context) []int {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil
	}
	return store.Seasons(ctx)
}

// GetStats returns service statistics for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"ingestWorkerCount": s.workerCount,
		"ingestQueueSize":   s.queueSize,
	}
	if s.started {
		seasons, races := s.store.Counts(ctx)
		stats["queuedBatches"] = s.ingestQueue.Len(ctx)
		stats["seasons"] = seasons
		stats["races"] = races
	}
	return stats
}
