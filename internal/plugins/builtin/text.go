package builtin

import (
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

// TextPlugin provides text labels.
func TextPlugin() plugin.Descriptor[surface.Capability] {
	return plugin.Descriptor[surface.Capability]{
		Name:        Text,
		Description: "Text labels in a fixed 7x13 font.",
		Funcs: map[string]surface.Capability{
			"label": label,
		},
	}
}

// label(x, y, text, [colors], [unit])
//
// (x, y) is the left end of the baseline, in units. Text is painted with
// the fill color.
func label(s *surface.Surface, args ...any) error {
	a := surface.NewArgs("label", args)
	x, y := a.Float(), a.Float()
	text := a.Text()
	col := a.Colors(style.Solid(style.Black))
	u := s.UnitFor(a.DrawOptions()...)
	if err := a.Done(); err != nil {
		return err
	}

	ctx := s.Context()
	ctx.SetFill(col.Fill)
	px, py := u.ScalePoint(x, y)
	ctx.FillText(px, py, text)
	return nil
}
