// Package model contains the canonical domain records passed between layers.
package model

import "time"

// Compound is one of the fixed tire compounds a stint can run on.
type Compound string

// The closed compound set. Anything else is rejected at the
// normalization boundary.
const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
)

// ParseCompound maps a raw compound string onto the closed set.
// Returns false for anything outside it.
func ParseCompound(s string) (Compound, bool) {
	switch Compound(s) {
	case CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet:
		return Compound(s), true
	default:
		return "", false
	}
}

// DriverPointEntry is one driver's season-to-date point record.
// Points and SprintPoints are kept separate; TotalPoints derives them.
type DriverPointEntry struct {
	DriverName        string // canonical form, see normalize.CanonicalDriverName
	DriverNumber      int
	Team              string
	Points            float64
	SprintPoints      float64
	RacesParticipated int
	SourceRank        int // rank carried over from the source feed; 0 means absent
}

// TotalPoints returns race plus sprint points.
func (e DriverPointEntry) TotalPoints() float64 {
	return e.Points + e.SprintPoints
}

// Stint is a contiguous run of laps on one compound.
// EndLap is inclusive: a stint covering laps 1..20 has StartLap 1, EndLap 20.
type Stint struct {
	Driver   string
	Compound Compound
	StartLap int
	EndLap   int
}

// Laps returns the number of laps the stint covers.
func (s Stint) Laps() int {
	return s.EndLap - s.StartLap + 1
}

// PositionSample is one driver's track position at the end of one lap.
type PositionSample struct {
	Driver   string
	Lap      int
	Position int
}

// PaceSample is one team's representative lap time for one lap, in seconds.
// Non-flying laps (pit in/out, safety car) have no sample at all.
type PaceSample struct {
	Team    string
	Lap     int
	Seconds float64
}

// RaceData bundles every per-race record kind for one (season, round).
// Teams lists every team identity the pace feed mentioned, in
// first-appearance order; it can name teams with no surviving Pace samples,
// so the pace view still renders them as "no data".
type RaceData struct {
	Season    int
	Round     int
	TotalLaps int
	Stints    []Stint
	Positions []PositionSample
	Pace      []PaceSample
	Teams     []string
}

// RaceSchedule records when a round's race takes place. The facade treats a
// round whose Date (UTC) is still in the future as having no derivable data.
type RaceSchedule struct {
	Season int
	Round  int
	Name   string
	Date   time.Time
}

// Completed reports whether the race has taken place as of now.
// The comparison is done in UTC so the answer does not depend on the
// server's locale.
func (r RaceSchedule) Completed(now time.Time) bool {
	return !r.Date.After(now.UTC())
}
