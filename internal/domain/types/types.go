// Package types contains the view types returned to the presentation layer.
package types

// DriverStanding is one ranked row of the driver championship table.
type DriverStanding struct {
	Rank              int     `json:"rank"`
	DriverName        string  `json:"driver_name"`
	DriverNumber      int     `json:"driver_number,omitempty"`
	Team              string  `json:"team"`
	Points            float64 `json:"points"`
	SprintPoints      float64 `json:"sprint_points"`
	TotalPoints       float64 `json:"total_points"`
	RacesParticipated int     `json:"races_participated"`
}

// ConstructorStanding is one ranked row of the constructor championship table.
// Drivers lists the distinct drivers that contributed, in first-appearance order.
type ConstructorStanding struct {
	Rank        int      `json:"rank"`
	Team        string   `json:"team"`
	TotalPoints float64  `json:"total_points"`
	Drivers     []string `json:"drivers"`
}

// StintView is one stint of a driver's tire strategy.
type StintView struct {
	Compound string `json:"compound"`
	StartLap int    `json:"start_lap"`
	EndLap   int    `json:"end_lap"`
	Laps     int    `json:"laps"`
}

// StintSeries is one driver's ordered stint sequence. Unavailable is set when
// the source carried no usable stint records for the driver at all.
type StintSeries struct {
	Driver      string      `json:"driver"`
	Stints      []StintView `json:"stints"`
	Unavailable bool        `json:"unavailable,omitempty"`
}

// StrategyChart is the tire-strategy view for one race. MaxLaps is the
// largest end lap seen across all drivers; consumers scale the timeline with
// it but must not assume every driver reached that lap.
type StrategyChart struct {
	Drivers []StintSeries `json:"drivers"`
	MaxLaps int           `json:"max_laps"`
}

// PositionPoint is a driver's position at the end of one lap.
type PositionPoint struct {
	Lap      int `json:"lap"`
	Position int `json:"position"`
}

// PositionSeries is one driver's lap-ordered position trace. A driver with
// no valid samples keeps an empty Points slice so consumers render "no data"
// instead of erroring.
type PositionSeries struct {
	Driver string          `json:"driver"`
	Points []PositionPoint `json:"points"`
}

// PacePoint is a team's representative lap time for one lap.
type PacePoint struct {
	Lap     int     `json:"lap"`
	Seconds float64 `json:"seconds"`
}

// PaceSeries is one team's lap-ordered pace trace.
type PaceSeries struct {
	Team   string      `json:"team"`
	Points []PacePoint `json:"points"`
}

// Rejection describes a single input record that normalization dropped.
// It is a diagnostic, never an error: the rest of the batch proceeds.
type Rejection struct {
	BatchID string `json:"batch_id,omitempty"`
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason"`
}
