package eventbus

import (
	"context"
	"log"

	"github.com/matthewbaird/schemagen/internal/event"
)

// LogConsumer logs every event.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	switch {
	case evt.RunID != "" && evt.SessionID != "":
		log.Printf("event: %s run=%s session=%s %s", evt.EventType, evt.RunID, evt.SessionID, evt.Summary)
	case evt.RunID != "":
		log.Printf("event: %s run=%s %s", evt.EventType, evt.RunID, evt.Summary)
	case evt.SessionID != "":
		log.Printf("event: %s session=%s %s", evt.EventType, evt.SessionID, evt.Summary)
	default:
		log.Printf("event: %s %s", evt.EventType, evt.Summary)
	}
	return nil
}
