package command

import "context"

// Step runs a command. The innermost step drives the control flow; the
// outer ones are middleware.
type Step func(ctx context.Context, c Command) error

// Middleware decorates a Step. Middleware runs inside Perform, after the
// bound/performed checks, so it sees every execution exactly once.
type Middleware func(next Step) Step

// Perform runs c's business logic under the command control flow:
//
//   - a body that returns nil without declaring an outcome succeeds with a
//     nil payload;
//   - a halt signal produced by c.FailNow is absorbed and Perform returns
//     nil;
//   - any other error is returned unchanged and the outcome is left as the
//     body left it.
//
// Calling Perform twice on one instance returns ErrAlreadyPerformed.
func Perform(ctx context.Context, c Command) error {
	b := c.base()
	if !b.bound() {
		return ErrUnbound
	}
	if b.performed {
		return ErrAlreadyPerformed
	}
	b.performed = true

	step := b.step
	if step == nil {
		step = run
	}
	return step(ctx, c)
}

func run(ctx context.Context, c Command) error {
	b := c.base()
	defer b.local.Reset()

	if err := c.Perform(ctx); err != nil {
		if haltedBy(err, b.id) {
			return nil
		}
		return err
	}
	if !b.outcome.IsSet() {
		b.Succeed(ctx, nil)
	}
	return nil
}

func chain(middleware []Middleware) Step {
	step := Step(run)
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] != nil {
			step = middleware[i](step)
		}
	}
	return step
}
