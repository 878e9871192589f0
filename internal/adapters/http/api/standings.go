// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/sourabhpal/f1-dashboard/internal/app"
)

// StandingsHandler handles championship-table requests.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleDriverStandings handles GET /standings/{season} requests.
func (h *StandingsHandler) HandleDriverStandings(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/standings/", app.KindDriverStandings)
}

// HandleConstructorStandings handles GET /team-standings/{season} requests.
func (h *StandingsHandler) HandleConstructorStandings(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/team-standings/", app.KindConstructorStandings)
}

func (h *StandingsHandler) handle(w http.ResponseWriter, r *http.Request, prefix string, kind app.Kind) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nums, trailing, ok := pathInts(r.URL.Path, prefix, 1)
	if !ok || trailing != "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	res, err := h.deps.Derive(r.Context(), app.Query{Kind: kind, Season: nums[0]})
	if err != nil {
		if errors.Is(err, app.ErrMissingParameter) {
			writeError(w, http.StatusBadRequest, "missing_parameter", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if kind == app.KindDriverStandings {
		writeJSON(w, http.StatusOK, res.DriverStandings)
		return
	}
	writeJSON(w, http.StatusOK, res.ConstructorStandings)
}
