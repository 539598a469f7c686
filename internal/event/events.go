package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/schemagen/internal/history"
)

// Event types.
const (
	TypeGenerationSucceeded = "generation_succeeded"
	TypeGenerationFailed    = "generation_failed"
	TypeSessionCreated      = "session_created"
	TypeSessionReset        = "session_reset"
	TypeSessionClosed       = "session_closed"
	TypeSessionsExpired     = "sessions_expired"
)

// DomainEvent carries the canonical shape of every event.
type DomainEvent struct {
	ID         string
	EventType  string
	OccurredAt time.Time
	SessionID  string
	RunID      string
	Summary    string
	Payload    json.RawMessage
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// GenerationPayload carries the outcome of a run.
type GenerationPayload struct {
	Target    string   `json:"target"`
	Classes   []string `json:"classes,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Error     string   `json:"error,omitempty"`
	Duration  string   `json:"duration"`
}

// NewGenerationCompleted builds the event for a finished run.
func NewGenerationCompleted(run history.Run) DomainEvent {
	evt := DomainEvent{
		ID:         newID(),
		OccurredAt: time.Now(),
		SessionID:  run.SessionID,
		RunID:      run.ID,
		Payload: mustJSON(GenerationPayload{
			Target:    run.Target,
			Classes:   run.Classes,
			ErrorKind: run.ErrorKind,
			Error:     run.Error,
			Duration:  run.Duration.String(),
		}),
	}
	if run.OK() {
		evt.EventType = TypeGenerationSucceeded
		evt.Summary = fmt.Sprintf("generated %d %s class(es): %s", len(run.Classes), run.Target, strings.Join(run.Classes, ", "))
	} else {
		evt.EventType = TypeGenerationFailed
		evt.Summary = fmt.Sprintf("%s generation failed (%s): %s", run.Target, run.ErrorKind, run.Error)
	}
	return evt
}

// NewSessionCreated builds the event for a new session.
func NewSessionCreated(sessionID, target string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeSessionCreated,
		OccurredAt: time.Now(),
		SessionID:  sessionID,
		Summary:    "session opened for " + target,
	}
}

// NewSessionReset builds the event for a scope reset.
func NewSessionReset(sessionID string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeSessionReset,
		OccurredAt: time.Now(),
		SessionID:  sessionID,
		Summary:    "class numbering restarted at DataClass1",
	}
}

// NewSessionClosed builds the event for a session removed by its client.
func NewSessionClosed(sessionID string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeSessionClosed,
		OccurredAt: time.Now(),
		SessionID:  sessionID,
		Summary:    "session closed",
	}
}

// NewSessionsExpired builds the event for one sweep of stale sessions.
func NewSessionsExpired(ids []string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  TypeSessionsExpired,
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("%d idle or expired session(s) removed", len(ids)),
		Payload:    mustJSON(map[string][]string{"session_ids": ids}),
	}
}
