// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/ingest"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
)

// batchRequest mirrors the raw shape the telemetry exporter posts. All four
// record collections are optional; the normalization boundary decides what
// survives.
type batchRequest struct {
	TotalLaps     int             `json:"total_laps"`
	FieldSize     int             `json:"field_size"`
	DriverEntries []normalize.Raw `json:"driver_entries"`
	Stints        []normalize.Raw `json:"stints"`
	Positions     []normalize.Raw `json:"positions"`
	Pace          []normalize.Raw `json:"pace"`
}

type batchAck struct {
	Status  string `json:"status"`
	BatchID string `json:"batch_id"`
}

type scheduleRequest struct {
	Round int    `json:"round"`
	Name  string `json:"name"`
	Date  string `json:"date"` // RFC3339
}

// IngestHandler accepts raw season and race batches.
type IngestHandler struct {
	deps Dependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps Dependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// HandleIngest handles POST /ingest/{season} for season-level standings
// batches and POST /ingest/{season}/{round} for per-race timing batches.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	season, round := 0, 0
	if nums, trailing, ok := pathInts(r.URL.Path, "/ingest/", 2); ok && trailing == "" {
		season, round = nums[0], nums[1]
	} else if nums, trailing, ok := pathInts(r.URL.Path, "/ingest/", 1); ok && trailing == "" {
		season = nums[0]
	} else {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	batch := ingest.Batch{
		Season:        season,
		Round:         round,
		TotalLaps:     req.TotalLaps,
		FieldSize:     req.FieldSize,
		DriverEntries: req.DriverEntries,
		Stints:        req.Stints,
		Positions:     req.Positions,
		Pace:          req.Pace,
	}
	id, ok := h.deps.EnqueueBatch(r.Context(), batch)
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, batchAck{Status: "accepted", BatchID: id})
}

// HandleSchedule handles POST /schedule/{season} requests recording a
// round's race date for the completed-race policy.
func (h *IngestHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	nums, trailing, ok := pathInts(r.URL.Path, "/schedule/", 1)
	if !ok || trailing != "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Round < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sched := model.RaceSchedule{
		Season: nums[0],
		Round:  req.Round,
		Name:   req.Name,
		Date:   date.UTC(),
	}
	if err := h.deps.PutSchedule(r.Context(), sched); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SeasonsHandler lists the seasons available for querying.
type SeasonsHandler struct {
	deps Dependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps Dependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

// HandleSeasons handles GET /seasons requests.
func (h *SeasonsHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Seasons(r.Context()))
}
