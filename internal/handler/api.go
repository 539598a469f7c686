package handler

import (
	"encoding/json"
	"time"

	"github.com/matthewbaird/schemagen/internal/history"
	"github.com/matthewbaird/schemagen/internal/session"
)

// GenerateRequest is the body of the generate endpoints.
type GenerateRequest struct {
	Schema  json.RawMessage `json:"schema" jsonschema:"description=JSON Schema document or a string holding JSON or CUE or YAML source"`
	Target  string          `json:"target,omitempty" jsonschema:"enum=python,enum=go"`
	Package string          `json:"package,omitempty" jsonschema:"description=Package name for the go target"`
}

// GenerateResponse is returned by a successful generation.
type GenerateResponse struct {
	RunID     string   `json:"run_id"`
	SessionID string   `json:"session_id,omitempty"`
	Target    string   `json:"target"`
	Classes   []string `json:"classes"`
	Source    string   `json:"source"`
}

// CreateSessionRequest is the optional body of POST /v1/sessions.
type CreateSessionRequest struct {
	Target  string `json:"target,omitempty" jsonschema:"enum=python,enum=go"`
	Package string `json:"package,omitempty"`
}

// SessionResponse describes a session.
type SessionResponse struct {
	ID           string    `json:"id"`
	Target       string    `json:"target"`
	Package      string    `json:"package,omitempty"`
	Runs         int       `json:"runs"`
	LastClass    int       `json:"last_class"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func sessionResponse(info session.Info) SessionResponse {
	return SessionResponse(info)
}

// RunResponse describes one recorded run.
type RunResponse struct {
	ID         string   `json:"id"`
	SessionID  string   `json:"session_id,omitempty"`
	Target     string   `json:"target"`
	Status     string   `json:"status"`
	Classes    []string `json:"classes,omitempty"`
	Source     string   `json:"source,omitempty"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Error      string   `json:"error,omitempty"`
	StartedAt  string   `json:"started_at"`
	DurationMS float64  `json:"duration_ms"`
}

func runResponse(r history.Run) RunResponse {
	return RunResponse{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Target:     r.Target,
		Status:     r.Status,
		Classes:    r.Classes,
		Source:     r.Source,
		ErrorKind:  r.ErrorKind,
		Error:      r.Error,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339Nano),
		DurationMS: float64(r.Duration.Microseconds()) / 1000,
	}
}

// RunListResponse is a page of runs.
type RunListResponse struct {
	Runs   []RunResponse `json:"runs"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Code       string   `json:"code"`
	RunID      string   `json:"run_id,omitempty"`
	Pointer    string   `json:"pointer,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
