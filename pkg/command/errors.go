package command

import "errors"

var (
	// ErrAlreadyPerformed is returned when Perform runs twice on one instance.
	ErrAlreadyPerformed = errors.New("command already performed")
	// ErrUnbound is returned or raised when a command was not created through
	// a Type and therefore has no key or registry.
	ErrUnbound = errors.New("command is not bound to a type")
	// ErrAlreadyBound is returned when a constructor hands back an instance
	// that another New call already bound.
	ErrAlreadyBound = errors.New("command instance is already bound")
	// ErrNilCommand is returned when a constructor returns a nil command
	// without an error.
	ErrNilCommand = errors.New("constructor returned a nil command")
	// ErrConstructorRequired is returned by NewType without a constructor.
	ErrConstructorRequired = errors.New("command constructor is required")
	// ErrKeyInvalid is returned by NewType when the key cannot be used in
	// event names.
	ErrKeyInvalid = errors.New("command key is invalid")
	// ErrValidationsDisabled is returned by ValidateOrFail on a type defined
	// without the validations capability.
	ErrValidationsDisabled = errors.New("validations are disabled for this command type")
)

// haltSignal is returned by FailNow. It belongs to one instance; Perform
// only absorbs the signal of the command it is running.
type haltSignal struct {
	commandID string
}

func (h *haltSignal) Error() string {
	return "command halted: " + h.commandID
}

// IsHalt reports whether err carries a halt signal from FailNow.
func IsHalt(err error) bool {
	var hs *haltSignal
	return errors.As(err, &hs)
}

func haltedBy(err error, commandID string) bool {
	var hs *haltSignal
	return errors.As(err, &hs) && hs.commandID == commandID
}
