package style

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// None is the fully transparent color. Contexts skip fills and strokes
// painted with it.
var None = color.RGBA{}

// Common colors.
var (
	Black   = color.RGBA{A: 0xff}
	White   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red     = color.RGBA{R: 0xff, A: 0xff}
	Green   = color.RGBA{G: 0x80, A: 0xff}
	Blue    = color.RGBA{B: 0xff, A: 0xff}
	Yellow  = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	Cyan    = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	Magenta = color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	Gray    = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	Orange  = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
)

var named = map[string]color.RGBA{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       Green,
	"blue":        Blue,
	"yellow":      Yellow,
	"cyan":        Cyan,
	"magenta":     Magenta,
	"gray":        Gray,
	"grey":        Gray,
	"orange":      Orange,
	"none":        None,
	"transparent": None,
}

// ParseColor parses "#RGB", "#RRGGBB" (the leading # is optional) or a
// color name such as "red" or "none".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}

	hex := s
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	// colorful.Hex scans with fmt and would accept odd lengths.
	if len(hex) != 4 && len(hex) != 7 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the "#rrggbb" form of c, or "none" when c is transparent.
func Hex(c color.Color) string {
	if IsNone(c) {
		return "none"
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// IsNone reports whether c is nil or fully transparent.
func IsNone(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}

// Blend mixes a toward b in RGB space; t is clamped to [0, 1].
func Blend(a, b color.Color, t float64) color.RGBA {
	t = max(0, min(1, t))
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}
