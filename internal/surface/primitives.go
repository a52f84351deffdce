package surface

import (
	"fmt"
	"math"

	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/unit"
)

// graphStep is the horizontal sampling interval of Graph, in pixels.
const graphStep = 4

// DrawOption adjusts a single primitive call.
type DrawOption func(*drawOptions)

type drawOptions struct {
	unit *unit.Unit
}

// WithUnitOverride draws one call with u instead of the surface unit.
func WithUnitOverride(u float64) DrawOption {
	return func(o *drawOptions) {
		v := unit.Unit(u)
		o.unit = &v
	}
}

// UnitFor returns the unit a primitive called with opts draws with.
func (s *Surface) UnitFor(opts ...DrawOption) unit.Unit {
	var o drawOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.unit != nil {
		return *o.unit
	}
	return s.unit
}

// GraphFunc is a function plotted by Graph.
type GraphFunc func(x float64) (float64, error)

// Plain adapts an infallible function for Graph.
func Plain(f func(float64) float64) GraphFunc {
	return func(x float64) (float64, error) {
		return f(x), nil
	}
}

// Bg paints the whole canvas with the fill color.
func (s *Surface) Bg(col style.ColorDetails) {
	s.ctx.SetFill(col.Fill)
	s.ctx.SetStroke(col.Stroke)
	s.ctx.FillRect(0, 0, float64(s.width), float64(s.height))
}

// Clear paints the whole canvas white.
func (s *Surface) Clear() {
	s.Bg(style.Solid(style.White))
}

// Circle draws a filled, outlined circle. The center is in pixels and the
// radius in units. The outline width is StrokeWidth pixels, unscaled.
func (s *Surface) Circle(x, y, rad float64, col style.ColorDetails, prop style.Properties, opts ...DrawOption) error {
	if rad < 0 {
		return fmt.Errorf("circle: %w: negative radius %v", ErrInvalidArgument, rad)
	}
	r := s.UnitFor(opts...).Scale(rad)

	s.ctx.BeginPath()
	s.ctx.Arc(x, y, r, 0, 2*math.Pi)
	s.ctx.SetFill(col.Fill)
	s.ctx.Fill()
	s.ctx.SetStroke(col.Stroke)
	s.ctx.SetLineWidth(prop.StrokeWidth)
	s.ctx.Stroke()
	return nil
}

// Rect draws a filled, outlined rectangle. Every value is in units.
func (s *Surface) Rect(x, y, w, h float64, col style.ColorDetails, prop style.Properties, opts ...DrawOption) {
	u := s.UnitFor(opts...)
	px, py := u.ScalePoint(x, y)
	pw, ph := u.ScalePoint(w, h)

	s.ctx.SetFill(col.Fill)
	s.ctx.SetStroke(col.Stroke)
	prop.Apply(s.ctx, float64(u))
	s.ctx.FillRect(px, py, pw, ph)
	s.ctx.BeginPath()
	s.ctx.Rect(px, py, pw, ph)
	s.ctx.Stroke()
}

// Line draws a segment in the stroke color. Endpoints are in units.
func (s *Surface) Line(x1, y1, x2, y2 float64, col style.ColorDetails, prop style.Properties, opts ...DrawOption) {
	u := s.UnitFor(opts...)
	prop.Apply(s.ctx, float64(u))
	s.ctx.SetStroke(col.Stroke)
	s.ctx.BeginPath()
	s.ctx.MoveTo(u.ScalePoint(x1, y1))
	s.ctx.LineTo(u.ScalePoint(x2, y2))
	s.ctx.Stroke()
}

// Graph plots fn inside a w x h box (units) offset by (xp, yp) units.
//
// The curve is sampled every 4 pixels across the box width, with x and y
// divided and multiplied by scale; y grows upward from the bottom of the box.
func (s *Surface) Graph(xp, yp, w, h float64, fn GraphFunc, col style.ColorDetails, prop style.Properties, scale float64, opts ...DrawOption) error {
	if fn == nil {
		return fmt.Errorf("graph: %w: nil function", ErrInvalidArgument)
	}
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return fmt.Errorf("graph: %w: scale must be finite and non-zero, got %v", ErrInvalidArgument, scale)
	}
	u := float64(s.UnitFor(opts...))

	w /= 2
	x0, y0 := u*w, u*h
	iMin := int(roundHalfUp(-x0 / graphStep))
	iMax := int(roundHalfUp(x0 / graphStep))

	s.ctx.BeginPath()
	prop.Apply(s.ctx, u)
	s.ctx.SetStroke(col.Stroke)
	for i := iMin; i <= iMax; i++ {
		xx := float64(graphStep * i)
		fy, err := fn(xx / scale)
		if err != nil {
			return fmt.Errorf("graph: sample at x=%v: %w", xx/scale, err)
		}
		yy := scale * fy
		px, py := x0+xx+xp*u, y0-yy+yp*u
		if i == iMin {
			s.ctx.MoveTo(px, py)
		} else {
			s.ctx.LineTo(px, py)
		}
	}
	s.ctx.Stroke()
	return nil
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
