// Package presentation runs an ordered list of scenes against one surface.
//
// Each scene starts from a cleared surface. After a scene draws, the frame
// is handed to an Exporter. Run stops at the first failing scene or when
// its context is cancelled.
package presentation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

// Scene draws one frame.
type Scene interface {
	Name() string
	Draw(ctx context.Context, s *surface.Surface) error
}

// SceneFunc adapts a function to Scene.
type SceneFunc struct {
	Title string
	Fn    func(ctx context.Context, s *surface.Surface) error
}

// Name returns the scene title.
func (f SceneFunc) Name() string { return f.Title }

// Draw calls Fn.
func (f SceneFunc) Draw(ctx context.Context, s *surface.Surface) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, s)
}

// Frame records one drawn scene.
type Frame struct {
	Index    int
	Scene    string
	Path     string
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	ID     uuid.UUID
	Frames []Frame
}

// Presentation owns a surface and the scenes drawn on it.
type Presentation struct {
	ID uuid.UUID

	surface  *surface.Surface
	scenes   []Scene
	exporter Exporter
	bg       *style.ColorDetails
	logger   *logging.Logger
}

// Option configures a Presentation.
type Option func(*Presentation)

// WithExporter sets where frames go after each scene. By default frames
// are discarded.
func WithExporter(e Exporter) Option {
	return func(p *Presentation) {
		p.exporter = e
	}
}

// WithBackground paints every scene's background with col instead of
// clearing to white.
func WithBackground(col style.ColorDetails) Option {
	return func(p *Presentation) {
		p.bg = &col
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Presentation) {
		p.logger = l
	}
}

// WithID sets the presentation ID instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(p *Presentation) {
		p.ID = id
	}
}

// New creates a presentation of scenes drawn on s.
func New(s *surface.Surface, scenes []Scene, opts ...Option) (*Presentation, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	p := &Presentation{
		ID:       uuid.New(),
		surface:  s,
		scenes:   append([]Scene(nil), scenes...),
		exporter: Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNull(p.logger).WithComponent("presentation").WithField("id", p.ID.String())
	return p, nil
}

// Surface returns the surface scenes draw on.
func (p *Presentation) Surface() *surface.Surface {
	return p.surface
}

// Scenes returns the scene names in order.
func (p *Presentation) Scenes() []string {
	names := make([]string, len(p.scenes))
	for i, sc := range p.scenes {
		names[i] = sc.Name()
	}
	return names
}

// Run draws every scene in order. The returned report lists the frames
// completed before any error.
func (p *Presentation) Run(ctx context.Context) (Report, error) {
	report := Report{ID: p.ID}
	if len(p.scenes) == 0 {
		return report, ErrNoScenes
	}

	for i, sc := range p.scenes {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("presentation stopped before scene %d: %w", i+1, err)
		}

		start := time.Now()
		if p.bg != nil {
			p.surface.Bg(*p.bg)
		} else {
			p.surface.Clear()
		}
		if err := sc.Draw(ctx, p.surface); err != nil {
			p.logger.Error("scene %s failed: %v", sc.Name(), err)
			return report, &SceneError{Index: i, Scene: sc.Name(), Err: err}
		}
		path, err := p.exporter.Export(i, sc.Name(), p.surface)
		if err != nil {
			return report, &SceneError{Index: i, Scene: sc.Name(), Err: fmt.Errorf("export: %w", err)}
		}

		frame := Frame{Index: i, Scene: sc.Name(), Path: path, Duration: time.Since(start)}
		report.Frames = append(report.Frames, frame)
		p.logger.Debug("scene %s drawn in %s", sc.Name(), frame.Duration)
	}

	p.logger.Info("presented %d scenes", len(report.Frames))
	return report, nil
}
