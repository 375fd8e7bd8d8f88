// Package relay forwards command outcome events to Redis pub/sub so that
// other processes can react to them.
package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/wire"
)

// DefaultPrefix is the channel prefix used when none is configured.
const DefaultPrefix = "interaction"

// Publisher is the part of a Redis client the relay needs. *redis.Client,
// *redis.ClusterClient and redis.UniversalClient satisfy it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Relay publishes wire envelopes to "<prefix>:<event name>".
type Relay struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithPrefix sets the channel prefix.
func WithPrefix(prefix string) Option {
	return func(r *Relay) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a relay on top of an existing client.
func New(pub Publisher, opts ...Option) *Relay {
	r := &Relay{
		pub:    pub,
		prefix: DefaultPrefix,
		logger: slog.Default().With("component", "relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewClient creates a Redis client for addr.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Channel returns the channel an event with the given name is published on.
func (r *Relay) Channel(eventName string) string {
	return r.prefix + ":" + eventName
}

// Forward publishes e and returns the number of receivers.
func (r *Relay) Forward(ctx context.Context, e events.Event) (int64, error) {
	body, err := wire.Encode(e)
	if err != nil {
		return 0, err
	}
	n, err := r.pub.Publish(ctx, r.Channel(e.Name), body).Result()
	if err != nil {
		return 0, fmt.Errorf("relay: publish %s: %w", e.Name, err)
	}
	return n, nil
}

// Handler returns an events.Handler that forwards every event it receives.
// Delivery failures are logged and never reach the command.
func (r *Relay) Handler() events.Handler {
	return func(ctx context.Context, e events.Event) {
		if _, err := r.Forward(ctx, e); err != nil {
			r.logger.ErrorContext(ctx, "event relay failed",
				"event", e.Name,
				"command_id", e.CommandID,
				"error", err,
			)
		}
	}
}

// Listener returns a listener forwarding both outcome kinds.
func (r *Relay) Listener() events.Listener {
	h := r.Handler()
	return events.Listener{OnSuccess: h, OnFailure: h}
}
