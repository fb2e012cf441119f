package oscillator

import "errors"

var (
	// ErrUnknownParam indicates a parameter key the model does not have.
	ErrUnknownParam = errors.New("oscillator: unknown parameter")

	// ErrUnknownKind indicates an unrecognised system name.
	ErrUnknownKind = errors.New("oscillator: unknown system")
)
