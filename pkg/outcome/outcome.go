// Package outcome holds the tri-state result cell owned by a single command.
package outcome

// State is the lifecycle position of an Outcome.
type State int

const (
	// Unset means no result has been declared yet.
	Unset State = iota
	// Succeeded is terminal: the command reported success.
	Succeeded
	// Failed is terminal: the command reported a business failure.
	Failed
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unset"
	}
}

// Terminal reports whether s is one of the final states.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Outcome is a result cell with an optional payload. The zero value is Unset.
//
// Outcome is not safe for concurrent use; it belongs to exactly one command.
type Outcome struct {
	state   State
	payload any
}

// Succeed moves the cell to Succeeded. It returns true when a terminal state
// was already recorded and has now been overwritten.
func (o *Outcome) Succeed(payload any) (overwritten bool) {
	return o.set(Succeeded, payload)
}

// Fail moves the cell to Failed. It returns true when a terminal state was
// already recorded and has now been overwritten.
func (o *Outcome) Fail(payload any) (overwritten bool) {
	return o.set(Failed, payload)
}

func (o *Outcome) set(state State, payload any) bool {
	overwritten := o.state.Terminal()
	o.state = state
	o.payload = payload
	return overwritten
}

// Succeeded is the negation of Failed. An Unset cell is not failed, so it
// reports true here; callers that need to distinguish use IsSet.
func (o Outcome) Succeeded() bool {
	return !o.Failed()
}

// Failed reports whether a failure was recorded.
func (o Outcome) Failed() bool {
	return o.state == Failed
}

// IsSet reports whether a terminal state has been recorded.
func (o Outcome) IsSet() bool {
	return o.state.Terminal()
}

// State returns the current state.
func (o Outcome) State() State {
	return o.state
}

// Payload returns the payload of the last terminal transition, or nil.
func (o Outcome) Payload() any {
	return o.payload
}
