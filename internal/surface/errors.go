package surface

import (
	"errors"
	"fmt"
)

// Surface errors.
var (
	// ErrNilContext is returned when a surface is created without a context.
	ErrNilContext = errors.New("surface: drawing context is nil")

	// ErrUnknownCapability is returned by Call for a name that is not registered.
	ErrUnknownCapability = errors.New("unknown capability")

	// ErrInvalidArgument is returned when a capability argument has the
	// wrong type or value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgError describes one bad capability argument.
type ArgError struct {
	// Capability is the name being called.
	Capability string
	// Index is the zero-based position of the argument.
	Index int
	// Want describes the expected value.
	Want string
	// Got is the value that was passed.
	Got any
}

func (e *ArgError) Error() string {
	if e.Got == nil && e.Want != "" {
		return fmt.Sprintf("%s: argument %d: missing %s", e.Capability, e.Index+1, e.Want)
	}
	return fmt.Sprintf("%s: argument %d: want %s, got %T (%v)", e.Capability, e.Index+1, e.Want, e.Got, e.Got)
}

func (e *ArgError) Unwrap() error {
	return ErrInvalidArgument
}
