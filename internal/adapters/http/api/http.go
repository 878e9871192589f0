// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/ingest"
	"github.com/sourabhpal/f1-dashboard/internal/app"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
)

// Dependencies bundles what the handlers need from the service layer.
type Dependencies interface {
	// Derive runs one aggregation query against the current snapshot.
	Derive(ctx context.Context, q app.Query) (app.Result, error)

	// EnqueueBatch submits a raw batch for asynchronous ingestion.
	// Returns the assigned batch id and false on backpressure.
	EnqueueBatch(ctx context.Context, batch ingest.Batch) (string, bool)

	// PutSchedule records a round's race date.
	PutSchedule(ctx context.Context, sched model.RaceSchedule) error

	// Seasons lists seasons with any ingested data.
	Seasons(ctx context.Context) []int
}

// Server wires HTTP routes for the derivation API.
type Server struct {
	standingsHandler *StandingsHandler
	raceHandler      *RaceHandler
	ingestHandler    *IngestHandler
	seasonsHandler   *SeasonsHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		standingsHandler: NewStandingsHandler(deps),
		raceHandler:      NewRaceHandler(deps),
		ingestHandler:    NewIngestHandler(deps),
		seasonsHandler:   NewSeasonsHandler(deps),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/seasons", MetricsMiddleware(s.seasonsHandler.HandleSeasons, "seasons"))
	mux.HandleFunc("/standings/", MetricsMiddleware(s.standingsHandler.HandleDriverStandings, "standings"))
	mux.HandleFunc("/team-standings/", MetricsMiddleware(s.standingsHandler.HandleConstructorStandings, "team_standings"))
	mux.HandleFunc("/race/", MetricsMiddleware(s.raceHandler.HandleRaceView, "race"))
	mux.HandleFunc("/ingest/", MetricsMiddleware(s.ingestHandler.HandleIngest, "ingest"))
	mux.HandleFunc("/schedule/", MetricsMiddleware(s.ingestHandler.HandleSchedule, "schedule"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathInts parses the slash-separated numeric segments after prefix, e.g.
// "/race/2025/3/team-pace" with prefix "/race/" yields [2025 3] and
// trailing "team-pace".
func pathInts(path, prefix string, want int) (nums []int, trailing string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < want {
		return nil, "", false
	}
	nums = make([]int, 0, want)
	for i := 0; i < want; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 1 {
			return nil, "", false
		}
		nums = append(nums, n)
	}
	trailing = strings.Join(parts[want:], "/")
	return nums, trailing, true
}
