package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/surface"
)

// Script is a loaded scene script.
//
// A Script is not safe for concurrent use.
type Script struct {
	st     *state
	br     *bridge
	mod    *lua.LTable
	logger *logging.Logger

	surface *surface.Surface
	plugins []plugin.Descriptor[surface.Capability]
	scenes  []*Scene
}

type options struct {
	logger  *logging.Logger
	timeout time.Duration
	surface *surface.Surface
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger that receives print output and diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTimeout bounds each top-level call into Lua. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithSurface binds a surface before the main chunk runs, so mx.width and
// friends are available at load time.
func WithSurface(s *surface.Surface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// Load runs src as the main chunk of a script called name. The chunk
// declares plugins and scenes; it should not draw.
func Load(ctx context.Context, name string, src []byte, opts ...Option) (*Script, error) {
	o := options{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNull(o.logger).WithComponent("script").WithField("script", name)

	st := newState(name, o.timeout, logger)
	s := &Script{
		st:     st,
		br:     &bridge{st: st},
		logger: logger,
	}
	s.mod = s.newModule()
	st.L.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(s.mod)
		return 1
	})
	if o.surface != nil {
		s.Bind(o.surface)
	}

	if err := st.run(ctx, string(src)); err != nil {
		st.close()
		return nil, err
	}
	logger.Debug("loaded %d plugins, %d scenes", len(s.plugins), len(s.scenes))
	return s, nil
}

// LoadFile reads and loads the script at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Load(ctx, filepath.Base(path), src, opts...)
}

// Name returns the chunk name.
func (s *Script) Name() string {
	return s.st.name
}

// Bind makes surf the target of mx drawing functions and refreshes the
// mx.width, mx.height, mx.unit, mx.cx and mx.cy fields.
func (s *Script) Bind(surf *surface.Surface) {
	s.surface = surf
	if surf == nil {
		for _, k := range []string{"width", "height", "unit", "cx", "cy"} {
			s.mod.RawSetString(k, lua.LNil)
		}
		return
	}
	s.mod.RawSetString("width", lua.LNumber(surf.Width()))
	s.mod.RawSetString("height", lua.LNumber(surf.Height()))
	s.mod.RawSetString("unit", lua.LNumber(surf.Unit()))
	s.mod.RawSetString("cx", lua.LNumber(surf.CenterX()))
	s.mod.RawSetString("cy", lua.LNumber(surf.CenterY()))
}

// use binds surf and returns a function restoring the previous binding.
func (s *Script) use(surf *surface.Surface) func() {
	prev := s.surface
	if prev == surf {
		return func() {}
	}
	s.Bind(surf)
	return func() { s.Bind(prev) }
}

// Plugins returns the plugins declared with mx.plugin, in declaration order.
func (s *Script) Plugins() []plugin.Descriptor[surface.Capability] {
	out := make([]plugin.Descriptor[surface.Capability], len(s.plugins))
	copy(out, s.plugins)
	return out
}

// Scenes returns the scenes declared with mx.scene, in declaration order.
func (s *Script) Scenes() []*Scene {
	out := make([]*Scene, len(s.scenes))
	copy(out, s.scenes)
	return out
}

// Close releases the Lua state. Scenes and plugin functions fail afterwards.
func (s *Script) Close() {
	s.st.close()
}

// capability wraps a Lua plugin function.
func (s *Script) capability(fn *lua.LFunction) surface.Capability {
	return func(surf *surface.Surface, args ...any) error {
		defer s.use(surf)()
		largs := make([]lua.LValue, len(args))
		for i, a := range args {
			largs[i] = s.br.toLua(a)
		}
		_, err := s.st.call(context.Background(), fn, 0, largs...)
		return err
	}
}

// Scene is a named drawing function declared by a script.
type Scene struct {
	name   string
	fn     *lua.LFunction
	script *Script
}

// Name returns the scene name.
func (sc *Scene) Name() string {
	return sc.name
}

// Draw runs the scene against surf.
func (sc *Scene) Draw(ctx context.Context, surf *surface.Surface) error {
	defer sc.script.use(surf)()
	_, err := sc.script.st.call(ctx, sc.fn, 0)
	return err
}
