package events

import (
	"context"
	"sync"
)

// Registry holds global subscriptions keyed by command key and outcome kind.
type Registry interface {
	// Subscribe appends h to the handlers for (key, kind).
	Subscribe(key string, kind Kind, h Handler)
	// Handlers returns a snapshot of the handlers for (key, kind) in
	// subscription order.
	Handlers(key string, kind Kind) []Handler
	// ClearKey drops every subscription for one command key.
	ClearKey(key string)
	// Clear drops every subscription.
	Clear()
}

type slot struct {
	key  string
	kind Kind
}

// MapRegistry is the plain Registry implementation. It is not safe for
// concurrent use: concurrent Subscribe and Publish calls against the same
// MapRegistry must be serialised by the caller.
type MapRegistry struct {
	handlers map[slot][]Handler
}

// NewRegistry creates an empty, unsynchronised registry.
func NewRegistry() *MapRegistry {
	return &MapRegistry{handlers: make(map[slot][]Handler)}
}

func (r *MapRegistry) Subscribe(key string, kind Kind, h Handler) {
	if h == nil {
		return
	}
	if r.handlers == nil {
		r.handlers = make(map[slot][]Handler)
	}
	s := slot{key: key, kind: kind}
	r.handlers[s] = append(r.handlers[s], h)
}

func (r *MapRegistry) Handlers(key string, kind Kind) []Handler {
	hs := r.handlers[slot{key: key, kind: kind}]
	if len(hs) == 0 {
		return nil
	}
	return append([]Handler(nil), hs...)
}

func (r *MapRegistry) ClearKey(key string) {
	for s := range r.handlers {
		if s.key == key {
			delete(r.handlers, s)
		}
	}
}

func (r *MapRegistry) Clear() {
	r.handlers = make(map[slot][]Handler)
}

// LockedRegistry guards a MapRegistry with a RWMutex. Handlers are invoked
// by Publish on a snapshot, outside the lock, so a handler may subscribe.
type LockedRegistry struct {
	mu    sync.RWMutex
	inner *MapRegistry
}

// NewLockedRegistry creates an empty registry that is safe for concurrent
// use.
func NewLockedRegistry() *LockedRegistry {
	return &LockedRegistry{inner: NewRegistry()}
}

func (r *LockedRegistry) Subscribe(key string, kind Kind, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inner.Subscribe(key, kind, h)
}

func (r *LockedRegistry) Handlers(key string, kind Kind) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inner.Handlers(key, kind)
}

func (r *LockedRegistry) ClearKey(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inner.ClearKey(key)
}

func (r *LockedRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inner.Clear()
}

// SubscribeListener registers the non-nil handlers of l for key.
func SubscribeListener(reg Registry, key string, l Listener) {
	for _, kind := range []Kind{Success, Failure} {
		if h := l.Handler(kind); h != nil {
			reg.Subscribe(key, kind, h)
		}
	}
}

// Publish delivers e to every global handler subscribed for its key and kind,
// synchronously and in subscription order. A nil registry publishes nothing.
func Publish(ctx context.Context, reg Registry, e Event) {
	if reg == nil {
		return
	}
	for _, h := range reg.Handlers(e.Key, e.Kind) {
		h(ctx, e)
	}
}
