package presentation

import (
	"errors"
	"fmt"
)

// Errors for presentation operations.
var (
	// ErrNoSurface is returned when a presentation is created without a surface.
	ErrNoSurface = errors.New("presentation: surface is nil")

	// ErrNoScenes is returned by Run when there is nothing to draw.
	ErrNoScenes = errors.New("presentation: no scenes")

	// ErrNotEncodable is returned when the drawing context cannot encode frames.
	ErrNotEncodable = errors.New("drawing context cannot be encoded")
)

// SceneError reports the scene that failed.
type SceneError struct {
	Index int
	Scene string
	Err   error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene %d (%s): %v", e.Index+1, e.Scene, e.Err)
}

func (e *SceneError) Unwrap() error {
	return e.Err
}
