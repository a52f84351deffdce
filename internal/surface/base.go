package surface

import "github.com/dshills/mattex/internal/style"

// Base capability names.
const (
	CapBg     = "bg"
	CapClear  = "clear"
	CapCircle = "circle"
	CapRect   = "rect"
	CapLine   = "line"
	CapGraph  = "graph"
)

// BaseCapabilities lists the capabilities every surface starts with.
var BaseCapabilities = []string{CapBg, CapClear, CapCircle, CapRect, CapLine, CapGraph}

func registerBase(s *Surface) {
	s.caps[CapBg] = callBg
	s.caps[CapClear] = callClear
	s.caps[CapCircle] = callCircle
	s.caps[CapRect] = callRect
	s.caps[CapLine] = callLine
	s.caps[CapGraph] = callGraph
}

// bg(colors)
func callBg(s *Surface, args ...any) error {
	a := NewArgs(CapBg, args)
	col := a.Colors(style.Solid(style.White))
	if err := a.Done(); err != nil {
		return err
	}
	s.Bg(col)
	return nil
}

// clear()
func callClear(s *Surface, args ...any) error {
	if err := NewArgs(CapClear, args).Done(); err != nil {
		return err
	}
	s.Clear()
	return nil
}

// circle(x, y, rad, [colors], [props], [unit])
func callCircle(s *Surface, args ...any) error {
	a := NewArgs(CapCircle, args)
	x, y, r := a.Float(), a.Float(), a.Float()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	opts := a.DrawOptions()
	if err := a.Done(); err != nil {
		return err
	}
	return s.Circle(x, y, r, col, prop, opts...)
}

// rect(x, y, w, h, [colors], [props], [unit])
func callRect(s *Surface, args ...any) error {
	a := NewArgs(CapRect, args)
	x, y, w, h := a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	opts := a.DrawOptions()
	if err := a.Done(); err != nil {
		return err
	}
	s.Rect(x, y, w, h, col, prop, opts...)
	return nil
}

// line(x1, y1, x2, y2, [colors], [props], [unit])
func callLine(s *Surface, args ...any) error {
	a := NewArgs(CapLine, args)
	x1, y1, x2, y2 := a.Float(), a.Float(), a.Float(), a.Float()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	opts := a.DrawOptions()
	if err := a.Done(); err != nil {
		return err
	}
	s.Line(x1, y1, x2, y2, col, prop, opts...)
	return nil
}

// graph(xp, yp, w, h, fn, [colors], [props], [scale], [unit])
func callGraph(s *Surface, args ...any) error {
	a := NewArgs(CapGraph, args)
	xp, yp, w, h := a.Float(), a.Float(), a.Float(), a.Float()
	fn := a.Func()
	col := a.Colors(style.DefaultColorDetails())
	prop := a.Props(style.DefaultProperties())
	scale := a.OptFloat(1)
	opts := a.DrawOptions()
	if err := a.Done(); err != nil {
		return err
	}
	return s.Graph(xp, yp, w, h, fn, col, prop, scale, opts...)
}
