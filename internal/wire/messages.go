// Package wire defines the WebSocket protocol for interactive generation
// sessions. One connection is one session: untitled classes keep their
// numbering across the schemas sent on it until a reset.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/schemagen/internal/history"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "generate", "reset", "history", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// GenerateData is the payload for "generate" messages.
type GenerateData struct {
	Schema  json.RawMessage `json:"schema"`
	Target  string          `json:"target,omitempty"`
	Package string          `json:"package,omitempty"`
}

// HistoryRequest is the optional payload for "history" messages.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "session", "result", "error", "history", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData describes the connection's session. Sent on connect and after
// a reset.
type SessionData struct {
	SessionID string `json:"session_id"`
	Target    string `json:"target"`
	Package   string `json:"package,omitempty"`
	LastClass int    `json:"last_class"`
}

// ResultData carries a successful generation.
type ResultData struct {
	RunID   string   `json:"run_id"`
	Target  string   `json:"target"`
	Classes []string `json:"classes"`
	Source  string   `json:"source"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// HistoryData lists the session's runs, newest first.
type HistoryData struct {
	Runs  []history.Run `json:"runs"`
	Total int           `json:"total"`
}
