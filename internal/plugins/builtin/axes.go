package builtin

import (
	"fmt"
	"math"

	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

const (
	arrowSize = 0.5
	// maxGridLines bounds the work done for a tiny step.
	maxGridLines = 1000
)

// AxesPlugin provides coordinate grids and axes.
func AxesPlugin() plugin.Descriptor[surface.Capability] {
	return plugin.Descriptor[surface.Capability]{
		Name:        Axes,
		Description: "Coordinate grids and labelled axes.",
		Requires:    []string{Shapes, Text},
		Funcs: map[string]surface.Capability{
			"grid": grid,
			"axes": axes,
		},
	}
}

// grid(x, y, w, h, step, [colors], [props], [unit])
func grid(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("grid", args)
	x, y, w, h, step := a.Float(), a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.Solid(style.Blend(style.Black, style.White, 0.8)))
	prop := a.Props(style.Properties{StrokeWidth: 0.05})
	opts := a.DrawOptions()
	if err := a.Done(); err != nil {
		return err
	}
	if step <= 0 || math.IsNaN(step) {
		return fmt.Errorf("grid: %w: step must be positive, got %v", surface.ErrInvalidArgument, step)
	}
	if w/step > maxGridLines || h/step > maxGridLines {
		return fmt.Errorf("grid: %w: more than %d lines", surface.ErrInvalidArgument, maxGridLines)
	}

	for gx := 0.0; gx <= w; gx += step {
		s.Line(x+gx, y, x+gx, y+h, col, prop, opts...)
	}
	for gy := 0.0; gy <= h; gy += step {
		s.Line(x, y+gy, x+w, y+gy, col, prop, opts...)
	}
	return nil
}

// axes(x, y, w, h, [colors], [props], [unit])
//
// The origin is the bottom left corner (x, y+h). Arrowheads come from the
// triangle capability and the "x" and "y" captions from label.
func axes(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("axes", args)
	x, y, w, h := a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.Solid(style.Black))
	prop := a.Props(style.Properties{StrokeWidth: 0.1})
	u := float64(s.UnitFor(a.DrawOptions()...))
	if err := a.Done(); err != nil {
		return err
	}

	ox, oy := x, y+h
	ex, ey := x+w, y
	opt := surface.WithUnitOverride(u)
	s.Line(ox, oy, ex, oy, col, prop, opt)
	s.Line(ox, oy, ox, ey, col, prop, opt)

	const k = arrowSize
	if err := s.Call("triangle", ex+k, oy, ex-k, oy-k/2, ex-k, oy+k/2, col, prop, u); err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	if err := s.Call("triangle", ox, ey-k, ox-k/2, ey+k, ox+k/2, ey+k, col, prop, u); err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	if err := s.Call("label", ex+k, oy+2*k, "x", col, u); err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	if err := s.Call("label", ox+k, ey, "y", col, u); err != nil {
		return fmt.Errorf("axes: %w", err)
	}
	return nil
}
