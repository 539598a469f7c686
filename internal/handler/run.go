package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/schemagen/internal/history"
)

// RunHandler exposes the generation history.
type RunHandler struct {
	runs history.Store
	now  func() time.Time
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(runs history.Store) *RunHandler {
	return &RunHandler{runs: runs, now: time.Now}
}

// DefaultStatsWindow is the window of GET /v1/runs/stats without ?window=.
const DefaultStatsWindow = 24 * time.Hour

// ListRuns handles GET /v1/runs with page_size, offset and session_id.
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)
	runs, total, err := h.runs.List(r.Context(), history.QueryOptions{
		SessionID: r.URL.Query().Get("session_id"),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		historyErrorToHTTP(w, err)
		return
	}

	resp := RunListResponse{Runs: make([]RunResponse, len(runs)), Total: total, Limit: p.Limit, Offset: p.Offset}
	for i, run := range runs {
		resp.Runs[i] = runResponse(run)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRun handles GET /v1/runs/{id}.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	run, err := h.runs.Get(r.Context(), id)
	if err != nil {
		historyErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse(run))
}

// RunStats handles GET /v1/runs/stats?window=1h, summarizing the runs of the
// last window.
func (h *RunHandler) RunStats(w http.ResponseWriter, r *http.Request) {
	window := DefaultStatsWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "INVALID_WINDOW", "window must be a positive duration such as 1h or 30m")
			return
		}
		window = d
	}

	until := h.now()
	since := until.Add(-window)
	runs, err := h.runs.Between(r.Context(), since, until)
	if err != nil {
		historyErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history.Summarize(runs, since, until))
}
