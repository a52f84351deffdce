// Package style holds the color and stroke value objects passed to drawing
// primitives.
package style

import (
	"fmt"
	"image/color"
)

// ColorDetails pairs the outline color with the fill color of a shape.
type ColorDetails struct {
	Stroke color.RGBA `mapstructure:"stroke"`
	Fill   color.RGBA `mapstructure:"fill"`
}

// NewColorDetails parses a stroke and a fill color.
func NewColorDetails(stroke, fill string) (ColorDetails, error) {
	s, err := ParseColor(stroke)
	if err != nil {
		return ColorDetails{}, fmt.Errorf("stroke: %w", err)
	}
	f, err := ParseColor(fill)
	if err != nil {
		return ColorDetails{}, fmt.Errorf("fill: %w", err)
	}
	return ColorDetails{Stroke: s, Fill: f}, nil
}

// DefaultColorDetails returns a black outline with a white fill.
func DefaultColorDetails() ColorDetails {
	return ColorDetails{Stroke: Black, Fill: White}
}

// Solid uses c for both stroke and fill.
func Solid(c color.RGBA) ColorDetails {
	return ColorDetails{Stroke: c, Fill: c}
}

func (c ColorDetails) String() string {
	return fmt.Sprintf("stroke=%s fill=%s", Hex(c.Stroke), Hex(c.Fill))
}

// LineWidther is the part of a drawing context that Properties configures.
type LineWidther interface {
	SetLineWidth(w float64)
}

// Properties describes how an outline is drawn.
type Properties struct {
	// StrokeWidth is measured in units.
	StrokeWidth float64 `mapstructure:"sw"`
}

// DefaultProperties returns a one-unit stroke.
func DefaultProperties() Properties {
	return Properties{StrokeWidth: 1}
}

// Apply sets the context line width to StrokeWidth scaled by unit.
func (p Properties) Apply(ctx LineWidther, unit float64) {
	ctx.SetLineWidth(p.StrokeWidth * unit)
}
