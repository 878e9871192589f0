// Package standings ranks normalized point entries into the driver and
// constructor championship tables.
package standings

import (
	"sort"
	"strings"

	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/types"
)

// RankDrivers returns the driver championship table, ranked by total points
// descending. Point totals tie exactly in practice (every driver starts the
// season on zero), so ties resolve deterministically in two levels: entries
// that carried a rank from the source feed sort first, by that rank
// ascending; entries without one sort by canonical name, case-insensitive.
// A driver present more than once in the input (race feed plus un-merged
// sprint feed) counts once: the first record wins, later duplicates only
// fill in metadata the first record lacked.
func RankDrivers(entries []model.DriverPointEntry) []types.DriverStanding {
	merged := dedupByDriver(entries)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.TotalPoints() != b.TotalPoints() {
			return a.TotalPoints() > b.TotalPoints()
		}
		return lessTieBreak(a, b)
	})

	out := make([]types.DriverStanding, 0, len(merged))
	for i, e := range merged {
		out = append(out, types.DriverStanding{
			Rank:              i + 1,
			DriverName:        e.DriverName,
			DriverNumber:      e.DriverNumber,
			Team:              e.Team,
			Points:            e.Points,
			SprintPoints:      e.SprintPoints,
			TotalPoints:       e.TotalPoints(),
			RacesParticipated: e.RacesParticipated,
		})
	}
	return out
}

// RankConstructors returns the constructor championship table. Entries are
// grouped by team; within a group drivers dedup by canonical identity before
// points are summed, so a driver present twice in the source feed counts
// once. Groups sort by summed points descending, ties by team name ascending.
func RankConstructors(entries []model.DriverPointEntry) []types.ConstructorStanding {
	type group struct {
		team    string
		total   float64
		seen    map[string]struct{}
		drivers []string
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, e := range entries {
		g, ok := groups[e.Team]
		if !ok {
			g = &group{team: e.Team, seen: make(map[string]struct{})}
			groups[e.Team] = g
			order = append(order, e.Team)
		}
		key := strings.ToLower(e.DriverName)
		if _, dup := g.seen[key]; dup {
			continue
		}
		g.seen[key] = struct{}{}
		g.drivers = append(g.drivers, e.DriverName)
		g.total += e.TotalPoints()
	}

	ranked := make([]*group, 0, len(order))
	for _, team := range order {
		ranked = append(ranked, groups[team])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return strings.ToLower(ranked[i].team) < strings.ToLower(ranked[j].team)
	})

	out := make([]types.ConstructorStanding, 0, len(ranked))
	for i, g := range ranked {
		out = append(out, types.ConstructorStanding{
			Rank:        i + 1,
			Team:        g.team,
			TotalPoints: g.total,
			Drivers:     g.drivers,
		})
	}
	return out
}

// dedupByDriver drops duplicate records for one canonical driver, keeping
// the first. Later duplicates only backfill metadata the kept record lacked
// (team, number, races, source rank); their points are discarded so a feed
// that lists a driver twice never double counts.
func dedupByDriver(entries []model.DriverPointEntry) []model.DriverPointEntry {
	byDriver := make(map[string]*model.DriverPointEntry)
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.DriverName)
		existing, ok := byDriver[key]
		if !ok {
			copied := e
			byDriver[key] = &copied
			order = append(order, key)
			continue
		}
		if existing.Team == "" {
			existing.Team = e.Team
		}
		if existing.DriverNumber == 0 {
			existing.DriverNumber = e.DriverNumber
		}
		if existing.RacesParticipated == 0 {
			existing.RacesParticipated = e.RacesParticipated
		}
		if existing.SourceRank == 0 {
			existing.SourceRank = e.SourceRank
		}
	}

	out := make([]model.DriverPointEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *byDriver[key])
	}
	return out
}

// lessTieBreak orders two entries with equal total points.
func lessTieBreak(a, b model.DriverPointEntry) bool {
	aRanked, bRanked := a.SourceRank > 0, b.SourceRank > 0
	switch {
	case aRanked && bRanked:
		return a.SourceRank < b.SourceRank
	case aRanked != bRanked:
		return aRanked
	default:
		return strings.ToLower(a.DriverName) < strings.ToLower(b.DriverName)
	}
}
