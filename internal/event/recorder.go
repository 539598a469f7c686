// Package event provides the events emitted by generation runs and sessions.
// Runs are written to the history store first, then published to the
// in-process event bus for downstream consumers.
package event

import (
	"context"

	"github.com/matthewbaird/schemagen/internal/history"
)

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Publisher sends events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt DomainEvent)
}

// RunRecorder implements Recorder on a history.Store. If a Publisher is set,
// a generation event is published after the store write succeeds.
type RunRecorder struct {
	store history.Store
	bus   Publisher
}

// NewRunRecorder creates a new RunRecorder backed by the given store.
func NewRunRecorder(store history.Store) *RunRecorder {
	return &RunRecorder{store: store}
}

// SetPublisher attaches an event bus.
func (r *RunRecorder) SetPublisher(p Publisher) {
	r.bus = p
}

// Record writes the run and publishes its event.
func (r *RunRecorder) Record(ctx context.Context, run history.Run) error {
	if err := r.store.Write(ctx, run); err != nil {
		return err
	}
	if r.bus != nil {
		r.bus.Publish(ctx, NewGenerationCompleted(run))
	}
	return nil
}
