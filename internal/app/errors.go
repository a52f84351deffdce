package app

import "errors"

// Application errors.
var (
	// ErrNoFrames indicates a run produced nothing to show.
	ErrNoFrames = errors.New("no frames rendered")

	// ErrWatchUnavailable indicates watch mode has no files to watch.
	ErrWatchUnavailable = errors.New("nothing to watch: no config file or script")
)

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
