package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
	"golang.org/x/image/vector"
)

// Raster is a Context backed by an in-memory RGBA image.
type Raster struct {
	img    *image.RGBA
	format Format
	face   font.Face

	fill      color.Color
	stroke    color.Color
	lineWidth float64

	path path
	ras  *vector.Rasterizer
}

// RasterOption configures a Raster.
type RasterOption func(*Raster)

// WithFormat sets the encoding used by Encode.
func WithFormat(f Format) RasterOption {
	return func(r *Raster) {
		r.format = f
	}
}

// WithFace sets the font used by FillText.
func WithFace(face font.Face) RasterOption {
	return func(r *Raster) {
		r.face = face
	}
}

// NewRaster creates a transparent width x height raster.
func NewRaster(width, height int, opts ...RasterOption) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r := &Raster{
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		format:    FormatPNG,
		face:      basicfont.Face7x13,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
		ras:       vector.NewRasterizer(width, height),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.format.IsRaster() {
		return nil, fmt.Errorf("%w: %q is not a raster format", ErrUnknownFormat, r.format)
	}
	return r, nil
}

// Image returns the backing image. It is not copied.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Format returns the encoding used by Encode.
func (r *Raster) Format() Format {
	return r.format
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) SetFill(c color.Color)   { r.fill = c }
func (r *Raster) SetStroke(c color.Color) { r.stroke = c }
func (r *Raster) SetLineWidth(w float64)  { r.lineWidth = w }
func (r *Raster) BeginPath()              { r.path.reset() }
func (r *Raster) MoveTo(x, y float64)     { r.path.moveTo(x, y) }
func (r *Raster) LineTo(x, y float64)     { r.path.lineTo(x, y) }
func (r *Raster) ClosePath()              { r.path.closePath() }

func (r *Raster) Arc(x, y, radius, start, end float64) {
	r.path.arc(x, y, radius, start, end)
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.path.rect(x, y, w, h)
}

// Fill paints the current path with the nonzero rule.
func (r *Raster) Fill() {
	if transparent(r.fill) || r.path.empty() {
		return
	}
	r.begin()
	for _, s := range r.path.subs {
		if len(s.pts) < 3 {
			continue
		}
		r.ras.MoveTo(f32(s.pts[0]))
		for _, pt := range s.pts[1:] {
			r.ras.LineTo(f32(pt))
		}
		r.ras.ClosePath()
	}
	r.paint(r.fill)
}

// Stroke paints every segment as a quad and every vertex as a round join.
func (r *Raster) Stroke() {
	if transparent(r.stroke) || r.lineWidth <= 0 || r.path.empty() {
		return
	}
	hw := r.lineWidth / 2
	r.begin()
	r.path.segments(func(a, b point) {
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			return
		}
		nx, ny := -dy/l*hw, dx/l*hw
		r.ras.MoveTo(f32(point{a.X + nx, a.Y + ny}))
		r.ras.LineTo(f32(point{b.X + nx, b.Y + ny}))
		r.ras.LineTo(f32(point{b.X - nx, b.Y - ny}))
		r.ras.LineTo(f32(point{a.X - nx, a.Y - ny}))
		r.ras.ClosePath()
	})
	if hw >= 1 {
		r.path.vertices(func(pt point) {
			r.join(pt, hw)
		})
	}
	r.paint(r.stroke)
}

// join adds a disc wound the same way as the segment quads, so overlapping
// coverage accumulates instead of cancelling.
func (r *Raster) join(c point, radius float64) {
	n := arcSegments(radius, 2*math.Pi)
	for i := 0; i <= n; i++ {
		a := -2 * math.Pi * float64(i) / float64(n)
		pt := point{c.X + radius*math.Cos(a), c.Y + radius*math.Sin(a)}
		if i == 0 {
			r.ras.MoveTo(f32(pt))
			continue
		}
		r.ras.LineTo(f32(pt))
	}
	r.ras.ClosePath()
}

func (r *Raster) FillRect(x, y, w, h float64) {
	if transparent(r.fill) || w == 0 || h == 0 {
		return
	}
	r.begin()
	r.ras.MoveTo(f32(point{x, y}))
	r.ras.LineTo(f32(point{x + w, y}))
	r.ras.LineTo(f32(point{x + w, y + h}))
	r.ras.LineTo(f32(point{x, y + h}))
	r.ras.ClosePath()
	r.paint(r.fill)
}

func (r *Raster) FillText(x, y float64, s string) {
	if transparent(r.fill) || s == "" {
		return
	}
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.fill),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(s)
}

// MeasureText returns the advance width of s in pixels.
func (r *Raster) MeasureText(s string) float64 {
	return float64(font.MeasureString(r.face, s).Round())
}

// Encode writes the image in the configured format.
func (r *Raster) Encode(w io.Writer) error {
	var err error
	switch r.format {
	case FormatBMP:
		err = bmp.Encode(w, r.img)
	case FormatTIFF:
		err = tiff.Encode(w, r.img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, r.img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.format, err)
	}
	return nil
}

func (r *Raster) begin() {
	b := r.img.Bounds()
	r.ras.Reset(b.Dx(), b.Dy())
}

func (r *Raster) paint(c color.Color) {
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func f32(p point) (float32, float32) {
	return float32(p.X), float32(p.Y)
}

func transparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}
