package app

import (
	"context"
	"math"

	"github.com/dshills/mattex/internal/presentation"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

// demoScenes are shown when no script is configured.
func demoScenes() []presentation.Scene {
	return []presentation.Scene{
		presentation.SceneFunc{Title: "axes", Fn: drawAxes},
		presentation.SceneFunc{Title: "sine", Fn: drawSine},
	}
}

// box returns the drawing area in units, inset from the surface edges.
func box(s *surface.Surface) (x, y, w, h float64) {
	u := float64(s.Unit())
	sw, sh := float64(s.Width())/u, float64(s.Height())/u
	inset := math.Min(sw, sh) / 10
	return inset, inset, sw - 2*inset, sh - 2*inset
}

func drawAxes(_ context.Context, s *surface.Surface) error {
	x, y, w, h := box(s)
	if s.HasCapability("grid") {
		if err := s.Call("grid", x, y, w, h, 1.0); err != nil {
			return err
		}
	}
	if s.HasCapability("axes") {
		return s.Call("axes", x, y, w, h)
	}
	black := style.Solid(style.Black)
	prop := style.Properties{StrokeWidth: 0.1}
	s.Line(x, y+h, x+w, y+h, black, prop)
	s.Line(x, y+h, x, y, black, prop)
	return nil
}

// drawSine plots one period per 40 pixels across the box, centered
// vertically.
func drawSine(ctx context.Context, s *surface.Surface) error {
	if err := drawAxes(ctx, s); err != nil {
		return err
	}
	x, y, w, h := box(s)
	amp := float64(s.Unit()) * h / 3
	fn := surface.Plain(func(v float64) float64 {
		return amp / 40 * math.Sin(v*2*math.Pi)
	})
	col := style.Solid(style.Red)
	return s.Graph(x, y-h/2, w, h, fn, col, style.Properties{StrokeWidth: 0.1}, 40)
}
