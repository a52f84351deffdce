// Package surface implements the drawing surface: a fixed-size canvas with a
// derived unit and a capability set resolved by name at call time.
//
// A Surface owns its canvas.Context. Base capabilities (bg, clear, circle,
// rect, line, graph) are registered at construction; plugin.Install adds
// more through the plugin.Sink methods.
package surface

import (
	"fmt"
	"sort"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/unit"
)

// Capability is a named drawing function.
type Capability func(s *Surface, args ...any) error

var _ plugin.Sink[Capability] = (*Surface)(nil)

// Surface is a drawing target with a fixed pixel size.
type Surface struct {
	width, height    int
	unit             unit.Unit
	centerX, centerY int

	ctx  canvas.Context
	caps map[string]Capability

	logger *logging.Logger
}

type options struct {
	unit   *float64
	logger *logging.Logger
}

// Option configures a Surface.
type Option func(*options)

// WithUnit bypasses the unit heuristic.
func WithUnit(u float64) Option {
	return func(o *options) {
		o.unit = &u
	}
}

// WithUnitPtr is WithUnit for an optional value; nil keeps the heuristic.
func WithUnitPtr(u *float64) Option {
	return func(o *options) {
		o.unit = u
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a surface sized to ctx and registers the base capabilities.
func New(ctx canvas.Context, opts ...Option) (*Surface, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	w, h := ctx.Size()
	u, err := unit.Derive(w, h, o.unit)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}

	s := &Surface{
		width:   w,
		height:  h,
		unit:    u,
		centerX: w / 2,
		centerY: h / 2,
		ctx:     ctx,
		caps:    make(map[string]Capability),
		logger:  logging.OrNull(o.logger).WithComponent("surface"),
	}
	registerBase(s)
	s.logger.Debug("created %dx%d surface, unit %s", w, h, u)
	return s, nil
}

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.height }

// Unit returns the pixels per author coordinate.
func (s *Surface) Unit() unit.Unit { return s.unit }

// CenterX returns floor(width / 2).
func (s *Surface) CenterX() int { return s.centerX }

// CenterY returns floor(height / 2).
func (s *Surface) CenterY() int { return s.centerY }

// Context returns the rendering context.
func (s *Surface) Context() canvas.Context { return s.ctx }

// HasCapability reports whether name is registered.
func (s *Surface) HasCapability(name string) bool {
	_, ok := s.caps[name]
	return ok
}

// SetCapability registers or replaces a capability.
func (s *Surface) SetCapability(name string, fn Capability) {
	s.caps[name] = fn
}

// Capabilities returns the registered names in sorted order.
func (s *Surface) Capabilities() []string {
	names := make([]string, 0, len(s.caps))
	for name := range s.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the capability registered under name.
func (s *Surface) Call(name string, args ...any) error {
	fn, ok := s.caps[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	s.logger.Debug("call %s%v", name, args)
	return fn(s, args...)
}
