package builtin

import (
	"fmt"
	"math"

	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
	"github.com/dshills/mattex/internal/unit"
)

// ShapesPlugin provides closed polygons. Every coordinate is in units.
func ShapesPlugin() plugin.Descriptor[surface.Capability] {
	return plugin.Descriptor[surface.Capability]{
		Name:        Shapes,
		Description: "Triangles, regular polygons and stars.",
		Funcs: map[string]surface.Capability{
			"triangle": triangle,
			"polygon":  polygon,
			"star":     star,
		},
	}
}

type point struct{ x, y float64 }

// triangle(x1, y1, x2, y2, x3, y3, [colors], [props], [unit])
func triangle(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("triangle", args)
	pts := []point{
		{a.Float(), a.Float()},
		{a.Float(), a.Float()},
		{a.Float(), a.Float()},
	}
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	u := s.UnitFor(a.DrawOptions()...)
	if err := a.Done(); err != nil {
		return err
	}
	fillStroke(s, pts, col, prop, u)
	return nil
}

// polygon(cx, cy, radius, sides, [colors], [props], [unit])
//
// The first vertex points straight up.
func polygon(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("polygon", args)
	cx, cy, r, n := a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	u := s.UnitFor(a.DrawOptions()...)
	if err := a.Done(); err != nil {
		return err
	}
	sides := int(n)
	if sides < 3 || float64(sides) != n {
		return fmt.Errorf("polygon: %w: sides must be an integer >= 3, got %v", surface.ErrInvalidArgument, n)
	}
	if r < 0 {
		return fmt.Errorf("polygon: %w: negative radius %v", surface.ErrInvalidArgument, r)
	}

	pts := make([]point, sides)
	for i := range pts {
		pts[i] = onCircle(cx, cy, r, i, sides)
	}
	fillStroke(s, pts, col, prop, u)
	return nil
}

// star(cx, cy, outer, inner, points, [colors], [props], [unit])
func star(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("star", args)
	cx, cy, outer, inner, n := a.Float(), a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	u := s.UnitFor(a.DrawOptions()...)
	if err := a.Done(); err != nil {
		return err
	}
	points := int(n)
	if points < 2 || float64(points) != n {
		return fmt.Errorf("star: %w: points must be an integer >= 2, got %v", surface.ErrInvalidArgument, n)
	}
	if outer < 0 || inner < 0 {
		return fmt.Errorf("star: %w: negative radius", surface.ErrInvalidArgument)
	}

	pts := make([]point, 2*points)
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts[i] = onCircle(cx, cy, r, i, len(pts))
	}
	fillStroke(s, pts, col, prop, u)
	return nil
}

// onCircle returns vertex i of n evenly spaced points, starting at the top.
func onCircle(cx, cy, r float64, i, n int) point {
	a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
}

// fillStroke paints a closed polygon given in units.
func fillStroke(s *surface.Surface, pts []point, col style.ColorDetails, prop style.Properties, u unit.Unit) {
	ctx := s.Context()
	ctx.BeginPath()
	for i, p := range pts {
		x, y := u.ScalePoint(p.x, p.y)
		if i == 0 {
			ctx.MoveTo(x, y)
		} else {
			ctx.LineTo(x, y)
		}
	}
	ctx.ClosePath()
	ctx.SetFill(col.Fill)
	ctx.Fill()
	ctx.SetStroke(col.Stroke)
	prop.Apply(ctx, float64(u))
	ctx.Stroke()
}
