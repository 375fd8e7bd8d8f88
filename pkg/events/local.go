package events

import "context"

// Local holds the one-shot handlers of a single command instance. The zero
// value is ready to use. Local is not safe for concurrent use.
type Local struct {
	handlers map[Kind][]Handler
}

// On registers h for the next event of kind.
func (l *Local) On(kind Kind, h Handler) {
	if h == nil {
		return
	}
	if l.handlers == nil {
		l.handlers = make(map[Kind][]Handler)
	}
	l.handlers[kind] = append(l.handlers[kind], h)
}

// Fire invokes and then discards the handlers registered for e.Kind.
func (l *Local) Fire(ctx context.Context, e Event) {
	hs := l.handlers[e.Kind]
	if len(hs) == 0 {
		return
	}
	delete(l.handlers, e.Kind)
	for _, h := range hs {
		h(ctx, e)
	}
}

// Pending returns the number of handlers still waiting for an event.
func (l *Local) Pending() int {
	n := 0
	for _, hs := range l.handlers {
		n += len(hs)
	}
	return n
}

// Reset discards every pending handler.
func (l *Local) Reset() {
	l.handlers = nil
}
