package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/outcome"
	"github.com/stevehodgkiss/interaction/pkg/validation"
)

// Command is implemented by types that embed Base and provide Perform.
type Command interface {
	// Perform holds the business logic. It is called through the package
	// level Perform, never directly by callers.
	Perform(ctx context.Context) error

	ID() string
	Key() string
	Outcome() outcome.Outcome

	base() *Base
}

// Base carries the outcome, the local subscriptions and the error collection
// of one command instance. Embed it by value; Type.New binds it.
type Base struct {
	id     string
	key    string
	caps   Capabilities
	global events.Registry
	logger *slog.Logger
	step   Step

	outcome   outcome.Outcome
	local     events.Local
	errs      validation.Errors
	halted    bool
	performed bool
}

func (b *Base) base() *Base { return b }

type binding struct {
	key    string
	caps   Capabilities
	global events.Registry
	logger *slog.Logger
	step   Step
}

func (b *Base) bind(bn binding) error {
	if b.key != "" {
		return ErrAlreadyBound
	}
	b.id = uuid.New().String()
	b.key = bn.key
	b.caps = bn.caps
	b.global = bn.global
	b.step = bn.step
	b.logger = bn.logger.With("command_key", bn.key, "command_id", b.id)
	return nil
}

func (b *Base) bound() bool {
	return b.key != ""
}

// ID identifies this instance in events and logs.
func (b *Base) ID() string { return b.id }

// Key is the command key events are named after.
func (b *Base) Key() string { return b.key }

// Outcome returns a copy of the current outcome.
func (b *Base) Outcome() outcome.Outcome { return b.outcome }

// Succeeded reports whether the command did not fail. Before Perform has
// finished it only reflects what the body has declared so far.
func (b *Base) Succeeded() bool { return b.outcome.Succeeded() }

// Failed reports whether the command recorded a failure.
func (b *Base) Failed() bool { return b.outcome.Failed() }

// Payload returns the payload of the last declared outcome.
func (b *Base) Payload() any { return b.outcome.Payload() }

// Performed reports whether Perform has been started on this instance.
func (b *Base) Performed() bool { return b.performed }

// Halted reports whether FailNow ended the body early.
func (b *Base) Halted() bool { return b.halted }

// Errors returns the command's own error collection.
func (b *Base) Errors() *validation.Errors { return &b.errs }

// MergeErrors appends errs to the command's own collection without failing.
func (b *Base) MergeErrors(errs *validation.Errors) {
	b.errs.Merge(errs)
}

// OnSuccess registers a one-shot handler for this instance's success event.
// Handlers registered on an instance never see events of other instances
// and are discarded when Perform returns.
func (b *Base) OnSuccess(h events.Handler) {
	b.local.On(events.Success, h)
}

// OnFailure registers a one-shot handler for this instance's failure event.
func (b *Base) OnFailure(h events.Handler) {
	b.local.On(events.Failure, h)
}

// Succeed records success with an optional payload and publishes the
// success event. It does not stop the body.
func (b *Base) Succeed(ctx context.Context, payload any) {
	b.settle(ctx, events.Success, payload)
}

// Fail records failure with an optional payload and publishes the failure
// event. It does not stop the body; a later Succeed wins.
func (b *Base) Fail(ctx context.Context, payload any) {
	b.settle(ctx, events.Failure, payload)
}

// FailNow records failure, publishes the failure event and returns a halt
// signal. Return it from Perform (or from any helper on the way up) to stop
// the body; Perform converts it back into a normal return. The outcome is
// frozen once FailNow has been called.
func (b *Base) FailNow(ctx context.Context, payload any) error {
	b.settle(ctx, events.Failure, payload)
	b.halted = true
	return &haltSignal{commandID: b.id}
}

func (b *Base) settle(ctx context.Context, kind events.Kind, payload any) {
	if !b.bound() {
		panic(fmt.Errorf("%w: cannot publish %s", ErrUnbound, kind))
	}
	name := events.Name(b.key, kind)
	if b.halted {
		b.logger.WarnContext(ctx, "outcome ignored after halt", "event", name)
		return
	}

	var overwritten bool
	if kind == events.Success {
		overwritten = b.outcome.Succeed(payload)
	} else {
		overwritten = b.outcome.Fail(payload)
	}
	if overwritten {
		b.logger.WarnContext(ctx, "outcome overwritten", "event", name)
	}

	e := events.New(b.key, kind, b.id, payload)
	b.local.Fire(ctx, e)
	events.Publish(ctx, b.global, e)
}
