package command

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/stevehodgkiss/interaction/pkg/events"
)

// Definition names a command type. Key defaults to the normalised Name, and
// Name defaults to the Go type name of the command.
type Definition struct {
	Name string
	Key  string
}

// Capabilities switches optional behaviour of a command type.
type Capabilities struct {
	// Validations enables ValidateOrFail.
	Validations bool
}

// DefaultCapabilities returns the capabilities a type gets without
// WithCapabilities.
func DefaultCapabilities() Capabilities {
	return Capabilities{Validations: true}
}

// Constructor builds a command instance from its arguments. Errors are
// returned to the caller of New or Run unchanged.
type Constructor[A any, C Command] func(args A) (C, error)

type settings struct {
	registry   events.Registry
	logger     *slog.Logger
	caps       Capabilities
	middleware []Middleware
}

// Option configures a Type.
type Option func(*settings)

// WithRegistry sets the registry holding the type's global subscriptions.
// Several types may share one registry; their keys keep them apart.
func WithRegistry(r events.Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLogger sets the logger used by the type and its instances.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCapabilities replaces the default capabilities.
func WithCapabilities(c Capabilities) Option {
	return func(s *settings) {
		s.caps = c
	}
}

// WithMiddleware appends middleware. The first middleware is the outermost.
func WithMiddleware(m ...Middleware) Option {
	return func(s *settings) {
		s.middleware = append(s.middleware, m...)
	}
}

// Type is a command type: a constructor bound to a key, a global registry
// and a middleware chain. A Type is immutable after NewType; its registry is
// the only shared mutable state (see package events).
type Type[A any, C Command] struct {
	name      string
	key       string
	caps      Capabilities
	construct Constructor[A, C]
	registry  events.Registry
	logger    *slog.Logger
	step      Step
}

// NewType defines a command type. The key is resolved here so that no event
// can be published under an unresolved or malformed key.
func NewType[A any, C Command](def Definition, construct Constructor[A, C], opts ...Option) (*Type[A, C], error) {
	if construct == nil {
		return nil, ErrConstructorRequired
	}
	s := settings{caps: DefaultCapabilities()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	name := def.Name
	if name == "" {
		name = typeName(reflect.TypeFor[C]())
	}
	key := def.Key
	if key == "" {
		key = events.NormalizeKey(name)
	}
	if err := events.ValidateKey(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInvalid, err)
	}

	if s.registry == nil {
		s.registry = events.NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "command")
	}

	return &Type[A, C]{
		name:      name,
		key:       key,
		caps:      s.caps,
		construct: construct,
		registry:  s.registry,
		logger:    s.logger,
		step:      chain(s.middleware),
	}, nil
}

// MustType is like NewType but panics on error. It suits package-level
// command type variables.
func MustType[A any, C Command](def Definition, construct Constructor[A, C], opts ...Option) *Type[A, C] {
	t, err := NewType(def, construct, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Name returns the type's name.
func (t *Type[A, C]) Name() string { return t.name }

// Key returns the command key.
func (t *Type[A, C]) Key() string { return t.key }

// Capabilities returns the type's capabilities.
func (t *Type[A, C]) Capabilities() Capabilities { return t.caps }

// Registry returns the registry holding the type's global subscriptions.
func (t *Type[A, C]) Registry() events.Registry { return t.registry }

// EventName returns the name of the event published for kind.
func (t *Type[A, C]) EventName(kind events.Kind) string {
	return events.Name(t.key, kind)
}

// Subscribe registers a global listener. It stays subscribed for every
// instance until Unsubscribe or the registry is cleared.
func (t *Type[A, C]) Subscribe(l events.Listener) {
	events.SubscribeListener(t.registry, t.key, l)
}

// Unsubscribe drops every global listener of this type.
func (t *Type[A, C]) Unsubscribe() {
	t.registry.ClearKey(t.key)
}

// New constructs and binds an instance. The outcome starts unset.
func (t *Type[A, C]) New(args A) (C, error) {
	c, err := t.construct(args)
	if err != nil {
		return c, err
	}
	if isNil(c) {
		var zero C
		return zero, ErrNilCommand
	}
	if err := c.base().bind(binding{
		key:    t.key,
		caps:   t.caps,
		global: t.registry,
		logger: t.logger,
		step:   t.step,
	}); err != nil {
		return c, err
	}
	return c, nil
}

// Run constructs an instance, performs it and returns it. The error is nil
// for every business outcome; it is non-nil only when construction fails or
// the body returns a runtime error, in which case the instance (if any) is
// returned too and its outcome may still be unset.
func (t *Type[A, C]) Run(ctx context.Context, args A) (C, error) {
	c, err := t.New(args)
	if err != nil {
		return c, err
	}
	return c, Perform(ctx, c)
}

func isNil(c any) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
