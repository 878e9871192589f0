// Package stints orders and validates tire-stint sequences and assembles the
// per-race tire-strategy view.
package stints

import (
	"fmt"
	"sort"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
)

// indexedStint pairs a stint with its position in the caller's input, so
// rejection diagnostics point at the right source record after sorting.
type indexedStint struct {
	stint model.Stint
	index int
}

// Segment sorts one driver's stints by start lap and rejects overlapping
// segments. When two stints overlap the earlier one is kept and the later is
// flagged; overlaps are never merged or extended. Rejection indices refer to
// the input slice as the caller passed it, not the sorted order. totalLaps is
// advisory: a sequence that does not span the whole race is returned as-is,
// coverage is never fabricated.
func Segment(raw []model.Stint, totalLaps int) (ordered []model.Stint, rejected []types.Rejection) {
	indexed := make([]indexedStint, len(raw))
	for i, s := range raw {
		indexed[i] = indexedStint{stint: s, index: i}
	}
	return segment(indexed, totalLaps)
}

func segment(raw []indexedStint, totalLaps int) (ordered []model.Stint, rejected []types.Rejection) {
	if len(raw) == 0 {
		return nil, nil
	}

	sorted := make([]indexedStint, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].stint.StartLap < sorted[j].stint.StartLap
	})

	ordered = make([]model.Stint, 0, len(sorted))
	for _, is := range sorted {
		s := is.stint
		if totalLaps > 0 && s.StartLap > totalLaps {
			rejected = append(rejected, types.Rejection{
				Index:  is.index,
				Field:  "start_lap",
				Reason: fmt.Sprintf("stint starts at lap %d beyond race length %d", s.StartLap, totalLaps),
			})
			continue
		}
		if len(ordered) > 0 {
			prev := ordered[len(ordered)-1]
			if prev.EndLap >= s.StartLap {
				rejected = append(rejected, types.Rejection{
					Index:  is.index,
					Field:  "start_lap",
					Reason: fmt.Sprintf("stint %d-%d overlaps previous stint %d-%d", s.StartLap, s.EndLap, prev.StartLap, prev.EndLap),
				})
				continue
			}
		}
		ordered = append(ordered, s)
	}
	return ordered, rejected
}

// BuildChart groups a race's stint records by driver, segments each driver's
// sequence, and computes MaxLaps as the largest end lap observed across all
// input stints, rejected ones included: MaxLaps is a scaling hint for the
// timeline, not an assertion about the kept sequences. Driver order in the
// chart is first-appearance order in the input; rejection indices refer to
// the race-level input slice. A driver whose every stint was rejected stays
// in the chart with Unavailable set.
func BuildChart(raw []model.Stint, totalLaps int) (types.StrategyChart, []types.Rejection) {
	chart := types.StrategyChart{Drivers: []types.StintSeries{}}
	if len(raw) == 0 {
		return chart, nil
	}

	byDriver := make(map[string][]indexedStint)
	order := make([]string, 0)
	for i, s := range raw {
		if _, seen := byDriver[s.Driver]; !seen {
			order = append(order, s.Driver)
		}
		byDriver[s.Driver] = append(byDriver[s.Driver], indexedStint{stint: s, index: i})
		if s.EndLap > chart.MaxLaps {
			chart.MaxLaps = s.EndLap
		}
	}

	var rejected []types.Rejection
	for _, driver := range order {
		ordered, rej := segment(byDriver[driver], totalLaps)
		rejected = append(rejected, rej...)

		series := types.StintSeries{
			Driver: driver,
			Stints: make([]types.StintView, 0, len(ordered)),
		}
		for _, s := range ordered {
			series.Stints = append(series.Stints, types.StintView{
				Compound: string(s.Compound),
				StartLap: s.StartLap,
				EndLap:   s.EndLap,
				Laps:     s.Laps(),
			})
		}
		if len(series.Stints) == 0 {
			series.Unavailable = true
		}
		chart.Drivers = append(chart.Drivers, series)
	}
	return chart, rejected
}
