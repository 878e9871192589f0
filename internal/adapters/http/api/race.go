// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/sourabhpal/f1-dashboard/internal/app"
)

// raceViews maps the trailing path segment of a race URL onto a view kind.
var raceViews = map[string]app.Kind{
	"tire-strategy": app.KindTireStrategy,
	"positions":     app.KindPositionTimeline,
	"team-pace":     app.KindTeamPace,
}

// RaceHandler handles per-race chart requests.
type RaceHandler struct {
	deps Dependencies
}

// NewRaceHandler creates a new race-view handler.
func NewRaceHandler(deps Dependencies) *RaceHandler {
	return &RaceHandler{deps: deps}
}

// HandleRaceView handles GET /race/{season}/{round}/{view} requests, where
// view is tire-strategy, positions, or team-pace. The positions view accepts
// an optional ?driver= filter.
func (h *RaceHandler) HandleRaceView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nums, trailing, ok := pathInts(r.URL.Path, "/race/", 2)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	kind, ok := raceViews[trailing]
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	q := app.Query{
		Kind:   kind,
		Season: nums[0],
		Round:  nums[1],
		Driver: r.URL.Query().Get("driver"),
	}
	res, err := h.deps.Derive(r.Context(), q)
	if err != nil {
		if errors.Is(err, app.ErrMissingParameter) {
			writeError(w, http.StatusBadRequest, "missing_parameter", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	switch kind {
	case app.KindTireStrategy:
		writeJSON(w, http.StatusOK, res.Strategy)
	case app.KindPositionTimeline:
		writeJSON(w, http.StatusOK, res.Positions)
	case app.KindTeamPace:
		writeJSON(w, http.StatusOK, res.Pace)
	}
}
