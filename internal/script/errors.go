package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed script.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoSurface is returned when a drawing function runs before a
	// surface is bound.
	ErrNoSurface = errors.New("no surface bound")

	// ErrInvalidPlugin is returned for a malformed mx.plugin declaration.
	ErrInvalidPlugin = errors.New("invalid plugin declaration")

	// ErrInvalidScene is returned for a malformed mx.scene declaration.
	ErrInvalidScene = errors.New("invalid scene declaration")

	// ErrBadReturn is returned when a Lua graph function returns a non-number.
	ErrBadReturn = errors.New("function must return a number")
)

// Error is a failure raised while running Lua code.
type Error struct {
	// Script is the chunk name.
	Script string
	// Message is the Lua error text, including the source position.
	Message string
	// Err is the Go error that caused the failure, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("script %s: %s", e.Script, e.Message)
	}
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
