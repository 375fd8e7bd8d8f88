// Package journal keeps an append-only record of command outcome events.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/wire"
)

// ErrInvalidEntry is returned by Append for entries missing an event ID or
// name.
var ErrInvalidEntry = errors.New("journal: entry needs an event id and name")

// Entry is one recorded outcome event.
type Entry struct {
	Seq        int64           `json:"seq"`
	EventID    string          `json:"event_id"`
	Name       string          `json:"name"`
	Key        string          `json:"key"`
	Kind       events.Kind     `json:"kind"`
	CommandID  string          `json:"command_id"`
	Payload    json.RawMessage `json:"payload"`
	Digest     string          `json:"digest"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EntryFromEvent builds the journal entry for e.
func EntryFromEvent(e events.Event) (Entry, error) {
	env, err := wire.FromEvent(e)
	if err != nil {
		return Entry{}, err
	}
	digest, err := env.Digest()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		EventID:    env.ID,
		Name:       env.Name,
		Key:        env.Key,
		Kind:       env.Kind,
		CommandID:  env.CommandID,
		Payload:    env.Payload,
		Digest:     digest,
		OccurredAt: env.OccurredAt,
	}, nil
}

func (e Entry) validate() error {
	if e.EventID == "" || e.Name == "" {
		return ErrInvalidEntry
	}
	return nil
}

// Store persists entries. List returns the most recent entries first;
// ByCommand and ByKey return entries in the order they were appended.
type Store interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	ByCommand(ctx context.Context, commandID string) ([]Entry, error)
	ByKey(ctx context.Context, key string, limit int) ([]Entry, error)
}

// MemoryStore is a Store held in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Seq = int64(len(s.entries) + 1)
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *MemoryStore) ByCommand(_ context.Context, commandID string) ([]Entry, error) {
	return s.filter(0, func(e Entry) bool { return e.CommandID == commandID }), nil
}

func (s *MemoryStore) ByKey(_ context.Context, key string, limit int) ([]Entry, error) {
	return s.filter(limit, func(e Entry) bool { return e.Key == key }), nil
}

func (s *MemoryStore) filter(limit int, keep func(Entry) bool) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if limit > 0 && len(out) == limit {
			break
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Recorder appends every event it receives to a store.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder creates a recorder writing to store. A nil logger uses the
// default one.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default().With("component", "journal")
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends e.
func (r *Recorder) Record(ctx context.Context, e events.Event) error {
	entry, err := EntryFromEvent(e)
	if err != nil {
		return err
	}
	return r.store.Append(ctx, entry)
}

// Listener returns a listener recording both outcome kinds. Write failures
// are logged; they never change the outcome of the command.
func (r *Recorder) Listener() events.Listener {
	h := func(ctx context.Context, e events.Event) {
		if err := r.Record(ctx, e); err != nil {
			r.logger.ErrorContext(ctx, "journal append failed",
				"event", e.Name,
				"command_id", e.CommandID,
				"error", err,
			)
		}
	}
	return events.Listener{OnSuccess: h, OnFailure: h}
}
