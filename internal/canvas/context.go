// Package canvas provides the 2D drawing contexts a surface renders into.
//
// Context mirrors the subset of the HTML canvas 2D API that the drawing
// primitives need: a current path built with MoveTo, LineTo, Arc and Rect,
// then painted with Fill or Stroke using the current fill color, stroke
// color and line width.
//
// Three implementations are provided:
//   - Raster paints into an *image.RGBA and encodes PNG, BMP or TIFF.
//   - SVG emits one <path> element per paint call.
//   - Recorder records every call, for tests.
package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
)

var (
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("canvas: unknown format")

	// ErrInvalidSize is returned for non-positive canvas dimensions.
	ErrInvalidSize = errors.New("canvas: width and height must be positive")
)

// Context is a stateful 2D drawing context.
//
// Coordinates are in pixels with the origin at the top left corner and y
// growing downward. Painting with a fully transparent color is a no-op.
type Context interface {
	// Size returns the canvas dimensions in pixels.
	Size() (width, height int)

	// SetFill sets the color used by Fill, FillRect and FillText.
	SetFill(c color.Color)

	// SetStroke sets the color used by Stroke.
	SetStroke(c color.Color)

	// SetLineWidth sets the stroke width in pixels.
	SetLineWidth(w float64)

	// BeginPath discards the current path.
	BeginPath()

	// MoveTo starts a new subpath at (x, y).
	MoveTo(x, y float64)

	// LineTo adds a straight segment to the current subpath.
	LineTo(x, y float64)

	// Arc adds a clockwise circular arc from angle start to end (radians).
	Arc(x, y, r, start, end float64)

	// Rect adds a closed rectangle subpath.
	Rect(x, y, w, h float64)

	// ClosePath closes the current subpath.
	ClosePath()

	// Fill paints the interior of the current path.
	Fill()

	// Stroke paints the outline of the current path.
	Stroke()

	// FillRect paints a rectangle without touching the current path.
	FillRect(x, y, w, h float64)

	// FillText paints s with its baseline starting at (x, y).
	FillText(x, y float64, s string)
}

// Encoder is implemented by contexts that can serialize the current frame.
type Encoder interface {
	Encode(w io.Writer) error
}

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatSVG  Format = "svg"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatBMP, FormatTIFF, FormatSVG:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// IsRaster reports whether the format is produced by a Raster context.
func (f Format) IsRaster() bool {
	return f == FormatPNG || f == FormatBMP || f == FormatTIFF
}

// New creates a context that encodes to format.
func New(format Format, width, height int) (Context, error) {
	switch {
	case format == FormatSVG:
		return NewSVG(width, height)
	case format.IsRaster():
		return NewRaster(width, height, WithFormat(format))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
