package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the notification produced when a command outcome becomes terminal.
type Event struct {
	ID         string
	Name       string
	Key        string
	Kind       Kind
	CommandID  string
	Payload    any
	OccurredAt time.Time
}

// New builds an event for the given command key and kind.
func New(key string, kind Kind, commandID string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Name:       Name(key, kind),
		Key:        key,
		Kind:       kind,
		CommandID:  commandID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler receives one event.
type Handler func(ctx context.Context, e Event)

// Listener groups the handlers one subscriber registers for a command type.
// Nil handlers are skipped.
type Listener struct {
	OnSuccess Handler
	OnFailure Handler
}

// Handler returns the listener's handler for kind, or nil.
func (l Listener) Handler(kind Kind) Handler {
	switch kind {
	case Success:
		return l.OnSuccess
	case Failure:
		return l.OnFailure
	default:
		return nil
	}
}
