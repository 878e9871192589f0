// Package normalize is the boundary between the loosely-typed records the
// telemetry source hands over and the canonical domain model. Every batch
// function returns the records that validated plus a rejection diagnostic per
// dropped record; a malformed record never fails the batch.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
)

// Raw is one undecoded source record, as produced by json.Unmarshal into a
// generic map.
type Raw = map[string]any

// Result carries a normalized batch plus its rejection diagnostics.
type Result[T any] struct {
	BatchID  string
	Records  []T
	Rejected []types.Rejection
}

// DriverEntries validates and coerces raw driver point records.
// Policy: a record without a recognizable driver identity is dropped; missing
// or malformed points fields default to zero because partial standings data
// is still useful. races_participated and position are optional.
func DriverEntries(raw []Raw) Result[model.DriverPointEntry] {
	res := newResult[model.DriverPointEntry](len(raw))
	for i, r := range raw {
		name, ok := stringField(r, "driver_name")
		if !ok {
			res.reject(i, "driver_name", "missing driver identity")
			continue
		}
		team, _ := stringField(r, "team")
		points, ok := numberField(r, "points")
		if !ok || points < 0 {
			points = 0
		}
		sprint, ok := numberField(r, "sprint_points")
		if !ok || sprint < 0 {
			sprint = 0
		}
		entry := model.DriverPointEntry{
			DriverName:   CanonicalDriverName(name),
			Team:         CanonicalTeamName(team),
			Points:       points,
			SprintPoints: sprint,
		}
		if n, ok := numberField(r, "driver_number"); ok && n > 0 {
			entry.DriverNumber = int(n)
		}
		if n, ok := numberField(r, "races_participated"); ok && n > 0 {
			entry.RacesParticipated = int(n)
		}
		if n, ok := numberField(r, "position"); ok && n > 0 {
			entry.SourceRank = int(n)
		}
		res.Records = append(res.Records, entry)
	}
	return res
}

// StintRecords validates raw tire-stint records. Timing fields are never
// defaulted: a stint without parseable laps or a compound outside the closed
// set is dropped.
func StintRecords(raw []Raw) Result[model.Stint] {
	res := newResult[model.Stint](len(raw))
	for i, r := range raw {
		driver, ok := stringField(r, "driver")
		if !ok {
			res.reject(i, "driver", "missing driver identity")
			continue
		}
		compoundStr, ok := stringField(r, "compound")
		if !ok {
			res.reject(i, "compound", "missing compound")
			continue
		}
		compound, ok := model.ParseCompound(compoundStr)
		if !ok {
			res.reject(i, "compound", fmt.Sprintf("unknown compound %q", compoundStr))
			continue
		}
		start, ok := numberField(r, "start_lap")
		if !ok || start < 1 {
			res.reject(i, "start_lap", "missing or non-positive start_lap")
			continue
		}
		end, ok := numberField(r, "end_lap")
		if !ok || end < start {
			res.reject(i, "end_lap", "missing end_lap or end_lap before start_lap")
			continue
		}
		res.Records = append(res.Records, model.Stint{
			Driver:   CanonicalDriverName(driver),
			Compound: compound,
			StartLap: int(start),
			EndLap:   int(end),
		})
	}
	return res
}

// PositionSamples validates raw per-lap position records. fieldSize bounds
// the legal position range; pass 0 to skip the upper-bound check when the
// field size is unknown.
func PositionSamples(raw []Raw, fieldSize int) Result[model.PositionSample] {
	res := newResult[model.PositionSample](len(raw))
	for i, r := range raw {
		driver, ok := stringField(r, "driver")
		if !ok {
			res.reject(i, "driver", "missing driver identity")
			continue
		}
		lap, ok := numberField(r, "lap")
		if !ok || lap < 1 {
			res.reject(i, "lap", "missing or non-positive lap")
			continue
		}
		pos, ok := numberField(r, "position")
		if !ok || pos < 1 {
			res.reject(i, "position", "missing or non-positive position")
			continue
		}
		if fieldSize > 0 && int(pos) > fieldSize {
			res.reject(i, "position", fmt.Sprintf("position %d outside field of %d", int(pos), fieldSize))
			continue
		}
		res.Records = append(res.Records, model.PositionSample{
			Driver:   CanonicalDriverName(driver),
			Lap:      int(lap),
			Position: int(pos),
		})
	}
	return res
}

// PaceSamples validates raw per-lap team pace records. A lap time must be a
// positive number of seconds; zero or missing times mean the lap was not a
// flying lap and the sample is dropped rather than recorded as 0.
func PaceSamples(raw []Raw) Result[model.PaceSample] {
	res := newResult[model.PaceSample](len(raw))
	for i, r := range raw {
		team, ok := stringField(r, "team")
		if !ok {
			res.reject(i, "team", "missing team identity")
			continue
		}
		lap, ok := numberField(r, "lap")
		if !ok || lap < 1 {
			res.reject(i, "lap", "missing or non-positive lap")
			continue
		}
		seconds, ok := numberField(r, "lap_time")
		if !ok || seconds <= 0 {
			res.reject(i, "lap_time", "missing or non-positive lap_time")
			continue
		}
		res.Records = append(res.Records, model.PaceSample{
			Team:    CanonicalTeamName(team),
			Lap:     int(lap),
			Seconds: seconds,
		})
	}
	return res
}

// PaceTeams extracts the canonical team identities a raw pace feed mentions,
// in first-appearance order. Records whose samples fail validation still
// contribute their team, so a team whose every lap was rejected keeps a place
// in the pace view.
func PaceTeams(raw []Raw) []string {
	teams := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range raw {
		name, ok := stringField(r, "team")
		if !ok {
			continue
		}
		team := CanonicalTeamName(name)
		if _, dup := seen[team]; dup {
			continue
		}
		seen[team] = struct{}{}
		teams = append(teams, team)
	}
	return teams
}

func newResult[T any](capacity int) Result[T] {
	return Result[T]{
		BatchID: uuid.NewString(),
		Records: make([]T, 0, capacity),
	}
}

func (r *Result[T]) reject(index int, field, reason string) {
	r.Rejected = append(r.Rejected, types.Rejection{
		BatchID: r.BatchID,
		Index:   index,
		Field:   field,
		Reason:  reason,
	})
}

// stringField extracts a non-empty string value.
func stringField(r Raw, key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || collapseSpaces(s) == "" {
		return "", false
	}
	return s, true
}

// numberField extracts a numeric value, coercing the representations JSON
// decoding and loosely-typed feeds produce: float64, int, json.Number, and
// numeric strings.
func numberField(r Raw, key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
