// Package timeline turns normalized per-lap samples into the lap-ordered
// series the position and team-pace charts render.
package timeline

import (
	"sort"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
)

// Positions builds one lap-ordered position series per driver. Series order
// is first-appearance order of the driver in the samples; roster identities
// with no samples at all are appended afterwards with empty series, so a
// driver whose every sample was dropped still renders as "no data". Within a
// series laps are ascending and duplicate laps keep the first sample so the
// sequence stays strictly increasing.
func Positions(samples []model.PositionSample, roster []string) []types.PositionSeries {
	byDriver := make(map[string][]types.PositionPoint)
	order := make([]string, 0, len(samples))
	for _, s := range samples {
		if _, seen := byDriver[s.Driver]; !seen {
			order = append(order, s.Driver)
			byDriver[s.Driver] = []types.PositionPoint{}
		}
		byDriver[s.Driver] = append(byDriver[s.Driver], types.PositionPoint{
			Lap:      s.Lap,
			Position: s.Position,
		})
	}
	for _, driver := range roster {
		if _, seen := byDriver[driver]; !seen {
			order = append(order, driver)
			byDriver[driver] = []types.PositionPoint{}
		}
	}

	out := make([]types.PositionSeries, 0, len(order))
	for _, driver := range order {
		points := byDriver[driver]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Lap < points[j].Lap })
		out = append(out, types.PositionSeries{
			Driver: driver,
			Points: dedupPositionLaps(points),
		})
	}
	return out
}

// Pace builds one lap-ordered pace series per team, with the same roster and
// ordering rules as Positions.
func Pace(samples []model.PaceSample, roster []string) []types.PaceSeries {
	byTeam := make(map[string][]types.PacePoint)
	order := make([]string, 0, len(samples))
	for _, s := range samples {
		if _, seen := byTeam[s.Team]; !seen {
			order = append(order, s.Team)
			byTeam[s.Team] = []types.PacePoint{}
		}
		byTeam[s.Team] = append(byTeam[s.Team], types.PacePoint{
			Lap:     s.Lap,
			Seconds: s.Seconds,
		})
	}
	for _, team := range roster {
		if _, seen := byTeam[team]; !seen {
			order = append(order, team)
			byTeam[team] = []types.PacePoint{}
		}
	}

	out := make([]types.PaceSeries, 0, len(order))
	for _, team := range order {
		points := byTeam[team]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Lap < points[j].Lap })
		out = append(out, types.PaceSeries{
			Team:   team,
			Points: dedupPaceLaps(points),
		})
	}
	return out
}

func dedupPositionLaps(points []types.PositionPoint) []types.PositionPoint {
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Lap == p.Lap {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dedupPaceLaps(points []types.PacePoint) []types.PacePoint {
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Lap == p.Lap {
			continue
		}
		out = append(out, p)
	}
	return out
}
