// Package repository defines the persistent-store contract for ingested
// seasonal records and an in-memory snapshot implementation.
package repository

import (
	"context"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
)

// Store provides read/write access to ingested records by season and round.
// Reads hand out copies, never internal state: every derived view works on
// its own snapshot, so concurrent derivations need no coordination.
type Store interface {
	// PutSeasonEntries replaces the stored point entries for a season.
	PutSeasonEntries(ctx context.Context, season int, entries []model.DriverPointEntry) error

	// SeasonEntries returns the stored point entries for a season.
	// An unknown season yields an empty slice, not an error.
	SeasonEntries(ctx context.Context, season int) ([]model.DriverPointEntry, error)

	// PutRace replaces the stored timing records for one (season, round).
	PutRace(ctx context.Context, data model.RaceData) error

	// Race returns the timing records for one (season, round).
	// Returns ErrNotFound when the round was never ingested.
	Race(ctx context.Context, season, round int) (model.RaceData, error)

	// PutSchedule records when a round's race takes place.
	PutSchedule(ctx context.Context, sched model.RaceSchedule) error

	// Schedule returns the schedule entry for one (season, round).
	// Returns ErrNotFound when no schedule was ingested for it.
	Schedule(ctx context.Context, season, round int) (model.RaceSchedule, error)

	// Seasons lists the seasons with any ingested data, ascending.
	Seasons(ctx context.Context) []int

	// Counts reports store occupancy for stats and metrics.
	Counts(ctx context.Context) (seasons, races int)
}
