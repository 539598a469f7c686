// Package worker contains background workers that keep service state tidy.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/matthewbaird/schemagen/internal/event"
)

// SessionStore is the part of session.Manager the sweeper needs.
type SessionStore interface {
	Cleanup() []string
}

// SessionSweeper periodically removes idle and expired sessions.
type SessionSweeper struct {
	sessions SessionStore
	interval time.Duration
	bus      event.Publisher
}

// NewSessionSweeper creates a sweeper that runs every interval.
func NewSessionSweeper(sessions SessionStore, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{sessions: sessions, interval: interval}
}

// SetPublisher attaches an event bus. A sweep that removes sessions publishes
// one sessions_expired event.
func (w *SessionSweeper) SetPublisher(p event.Publisher) {
	w.bus = p
}

// Run sweeps until ctx is cancelled.
func (w *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass and returns the removed session IDs.
func (w *SessionSweeper) Sweep(ctx context.Context) []string {
	removed := w.sessions.Cleanup()
	if len(removed) == 0 {
		return nil
	}
	log.Printf("sweeper: removed %d session(s)", len(removed))
	if w.bus != nil {
		w.bus.Publish(ctx, event.NewSessionsExpired(removed))
	}
	return removed
}
