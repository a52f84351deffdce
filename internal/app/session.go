package app

import (
	"context"
	"fmt"
	"image"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/plugins/builtin"
	"github.com/dshills/mattex/internal/presentation"
	"github.com/dshills/mattex/internal/preview"
	"github.com/dshills/mattex/internal/script"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

// Session is one surface with its plugins installed and its scenes loaded.
type Session struct {
	app     *Application
	format  canvas.Format
	surface *surface.Surface
	script  *script.Script
	plugins []plugin.Descriptor[surface.Capability]
	scenes  []presentation.Scene
}

// Result describes a completed render.
type Result struct {
	Report  presentation.Report
	Plugins []plugin.Info
	Dir     string
}

// Build creates a session in the configured output format.
func (app *Application) Build(ctx context.Context) (*Session, error) {
	return app.build(ctx, app.cfg.Format())
}

func (app *Application) build(ctx context.Context, format canvas.Format) (*Session, error) {
	cfg := app.cfg

	cctx, err := canvas.New(format, cfg.Surface.Width, cfg.Surface.Height)
	if err != nil {
		return nil, &InitError{Component: "canvas", Err: err}
	}
	surf, err := surface.New(cctx,
		surface.WithUnitPtr(cfg.Surface.Unit),
		surface.WithLogger(app.logger))
	if err != nil {
		return nil, &InitError{Component: "surface", Err: err}
	}

	descs, err := builtin.Select(cfg.Plugins.Builtin)
	if err != nil {
		return nil, &InitError{Component: "plugins", Err: err}
	}

	sess := &Session{app: app, format: format, surface: surf}
	if cfg.Script != "" {
		sc, err := script.LoadFile(ctx, cfg.Script,
			script.WithLogger(app.logger),
			script.WithSurface(surf))
		if err != nil {
			return nil, &InitError{Component: "script", Err: err}
		}
		sess.script = sc
		descs = append(descs, sc.Plugins()...)
		for _, scene := range sc.Scenes() {
			sess.scenes = append(sess.scenes, scene)
		}
	} else {
		sess.scenes = demoScenes()
	}

	var ropts []plugin.Option
	ropts = append(ropts, plugin.WithLogger(app.logger))
	if cfg.Plugins.Strict {
		ropts = append(ropts, plugin.WithStrictCollisions())
	}
	if err := plugin.Install(plugin.NewRegistry(ropts...), surf, descs); err != nil {
		sess.Close()
		return nil, &InitError{Component: "plugins", Err: err}
	}
	sess.plugins = descs

	app.logger.Info("session ready: %dx%d %s, unit %s, %d plugins, %d scenes",
		surf.Width(), surf.Height(), format, surf.Unit(), len(descs), len(sess.scenes))
	return sess, nil
}

// Surface returns the session surface.
func (s *Session) Surface() *surface.Surface {
	return s.surface
}

// Plugins summarizes the installed plugins in install order.
func (s *Session) Plugins() []plugin.Info {
	return plugin.Describe(s.plugins)
}

// Scenes returns the scene names in order.
func (s *Session) Scenes() []string {
	names := make([]string, len(s.scenes))
	for i, sc := range s.scenes {
		names[i] = sc.Name()
	}
	return names
}

// Close releases the script state.
func (s *Session) Close() {
	if s.script != nil {
		s.script.Close()
		s.script = nil
	}
}

func (s *Session) background() style.ColorDetails {
	col, err := style.ParseColor(s.app.cfg.Surface.Background)
	if err != nil {
		col = style.White
	}
	return style.Solid(col)
}

// Render runs every scene and writes one file per scene to the output
// directory.
func (s *Session) Render(ctx context.Context) (*Result, error) {
	dir := s.app.cfg.Output.Dir
	exp, err := presentation.NewFileExporter(dir, s.format)
	if err != nil {
		return nil, err
	}
	report, err := s.run(ctx, exp)
	res := &Result{Report: report, Plugins: s.Plugins(), Dir: dir}
	if err != nil {
		return res, err
	}
	s.app.logger.Info("wrote %d frames to %s", len(report.Frames), dir)
	return res, nil
}

// Frames runs every scene and returns a copy of the image after each one.
// The session must have been built with a raster format.
func (s *Session) Frames(ctx context.Context) ([]preview.Frame, error) {
	var frames []preview.Frame
	capture := presentation.ExporterFunc(func(_ int, scene string, surf *surface.Surface) (string, error) {
		r, ok := surf.Context().(*canvas.Raster)
		if !ok {
			return "", fmt.Errorf("%w: %s", presentation.ErrNotEncodable, s.format)
		}
		frames = append(frames, preview.Frame{Name: scene, Image: cloneRGBA(r.Image())})
		return "", nil
	})
	if _, err := s.run(ctx, capture); err != nil {
		return frames, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

func (s *Session) run(ctx context.Context, exp presentation.Exporter) (presentation.Report, error) {
	p, err := presentation.New(s.surface, s.scenes,
		presentation.WithExporter(exp),
		presentation.WithBackground(s.background()),
		presentation.WithLogger(s.app.logger))
	if err != nil {
		return presentation.Report{}, err
	}
	return p.Run(ctx)
}

// Frames builds a raster session and captures every scene for preview.
func (app *Application) Frames(ctx context.Context) ([]preview.Frame, error) {
	sess, err := app.build(ctx, canvas.FormatPNG)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return sess.Frames(ctx)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	return &image.RGBA{
		Pix:    append([]uint8(nil), src.Pix...),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
}
