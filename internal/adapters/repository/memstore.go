package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"

	"github.com/sourabhpal/f1-dashboard/pkg/metrics"
)

type raceKey struct {
	season int
	round  int
}

// MemStore implements Store with plain maps behind one RWMutex. Writes copy
// in, reads copy out, so callers can hold results across the lock without
// observing later ingests.
type MemStore struct {
	mu       sync.RWMutex
	seasons  map[int][]model.DriverPointEntry
	races    map[raceKey]model.RaceData
	schedule map[raceKey]model.RaceSchedule
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		seasons:  make(map[int][]model.DriverPointEntry),
		races:    make(map[raceKey]model.RaceData),
		schedule: make(map[raceKey]model.RaceSchedule),
	}
}

// PutSeasonEntries replaces the stored point entries for a season.
func (s *MemStore) PutSeasonEntries(_ context.Context, season int, entries []model.DriverPointEntry) error {
	if season <= 0 {
		return ErrInvalidSeason
	}
	copied := make([]model.DriverPointEntry, len(entries))
	copy(copied, entries)

	s.mu.Lock()
	s.seasons[season] = copied
	s.mu.Unlock()

	s.updateOccupancy()
	return nil
}

// SeasonEntries returns a copy of the stored point entries for a season.
func (s *MemStore) SeasonEntries(_ context.Context, season int) ([]model.DriverPointEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.seasons[season]
	copied := make([]model.DriverPointEntry, len(entries))
	copy(copied, entries)
	return copied, nil
}

// PutRace replaces the stored timing records for one (season, round).
func (s *MemStore) PutRace(_ context.Context, data model.RaceData) error {
	if data.Season <= 0 {
		return ErrInvalidSeason
	}

	s.mu.Lock()
	s.races[raceKey{data.Season, data.Round}] = copyRace(data)
	s.mu.Unlock()

	s.updateOccupancy()
	return nil
}

// Race returns a copy of the timing records for one (season, round).
func (s *MemStore) Race(_ context.Context, season, round int) (model.RaceData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.races[raceKey{season, round}]
	if !ok {
		return model.RaceData{}, ErrNotFound
	}
	return copyRace(data), nil
}

// PutSchedule records when a round's race takes place.
func (s *MemStore) PutSchedule(_ context.Context, sched model.RaceSchedule) error {
	if sched.Season <= 0 {
		return ErrInvalidSeason
	}

	s.mu.Lock()
	s.schedule[raceKey{sched.Season, sched.Round}] = sched
	s.mu.Unlock()
	return nil
}

// Schedule returns the schedule entry for one (season, round).
func (s *MemStore) Schedule(_ context.Context, season, round int) (model.RaceSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.schedule[raceKey{season, round}]
	if !ok {
		return model.RaceSchedule{}, ErrNotFound
	}
	return sched, nil
}

// Seasons lists the seasons with any ingested data, ascending.
func (s *MemStore) Seasons(_ context.Context) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]struct{}, len(s.seasons))
	for season := range s.seasons {
		seen[season] = struct{}{}
	}
	for key := range s.races {
		seen[key.season] = struct{}{}
	}

	out := make([]int, 0, len(seen))
	for season := range seen {
		out = append(out, season)
	}
	sort.Ints(out)
	return out
}

// Counts reports store occupancy for stats and metrics.
func (s *MemStore) Counts(ctx context.Context) (seasons, races int) {
	s.mu.RLock()
	races = len(s.races)
	s.mu.RUnlock()
	return len(s.Seasons(ctx)), races
}

func (s *MemStore) updateOccupancy() {
	seasons, races := s.Counts(context.Background())
	metrics.UpdateStoreSeasons(seasons)
	metrics.UpdateStoreRaces(races)
}

func copyRace(data model.RaceData) model.RaceData {
	out := data
	out.Stints = append([]model.Stint(nil), data.Stints...)
	out.Positions = append([]model.PositionSample(nil), data.Positions...)
	out.Pace = append([]model.PaceSample(nil), data.Pace...)
	out.Teams = append([]string(nil), data.Teams...)
	return out
}
