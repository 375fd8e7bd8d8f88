// Package command runs single units of business logic that end in exactly one
// outcome, success or failure, and announce that outcome to subscribers.
//
// A command type embeds Base and implements Perform:
//
//	type SignUp struct {
//		command.Base
//		Name string
//		User *User
//	}
//
//	func (s *SignUp) Perform(ctx context.Context) error {
//		if err := s.ValidateOrFail(ctx, s.validate()); err != nil {
//			return err
//		}
//		if quotaExceeded() {
//			return s.FailNow(ctx, "quota_exceeded")
//		}
//		s.User = &User{Name: s.Name}
//		s.Succeed(ctx, s.User)
//		return nil
//	}
//
// A Type binds the command to its key, its global subscriptions and its
// middleware, and is the entry point callers use:
//
//	signUp, _ := command.NewType(command.Definition{Key: "sign_up"},
//		func(name string) (*SignUp, error) { return &SignUp{Name: name}, nil })
//
//	signUp.Subscribe(events.Listener{OnFailure: notifyOps})
//	cmd, err := signUp.Run(ctx, "John Smith")
//	// err != nil only for construction, configuration or runtime errors;
//	// business failures are reported by cmd.Failed().
//
// # Control flow
//
// If Perform returns nil without declaring an outcome the command succeeds
// with a nil payload. FailNow records a failure and returns a halt signal;
// returning it ends Perform early and Perform in this package swallows it, so
// the caller never sees it as an error. Fail records a failure without
// halting; a later Succeed overwrites it. Any other error returned by the
// body is passed to the caller unchanged and leaves the outcome as it was.
//
// # Events
//
// Every terminal transition publishes "<key>_success" or "<key>_failure",
// first to the instance's one-shot local handlers (OnSuccess, OnFailure) and
// then to the type's global registry. See package events for the registry's
// concurrency contract.
package command
