// Package source is the boundary to the external telemetry provider. The
// provider itself (transport, retries, upstream caching) stays out of this
// module; only the fetch contract and in-flight dedup live here.
package source

import (
	"context"
	"errors"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
)

// ErrUnavailable reports that the telemetry provider has no data for the
// requested race.
var ErrUnavailable = errors.New("telemetry unavailable")

// Source fetches raw timing records for one (season, round) from the
// telemetry provider.
type Source interface {
	FetchRace(ctx context.Context, season, round int) (model.RaceData, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context, season, round int) (model.RaceData, error)

// FetchRace calls f.
func (f Func) FetchRace(ctx context.Context, season, round int) (model.RaceData, error) {
	return f(ctx, season, round)
}
