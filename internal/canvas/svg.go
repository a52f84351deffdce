package canvas

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVG is a Context that emits an SVG document.
// Paths are written with float precision; rectangles and text use the
// integer svgo helpers.
type SVG struct {
	width, height int
	title         string

	buf bytes.Buffer
	doc *svg.SVG

	fill      color.Color
	stroke    color.Color
	lineWidth float64

	path path
}

// SVGOption configures an SVG context.
type SVGOption func(*SVG)

// WithTitle sets the document <title>.
func WithTitle(title string) SVGOption {
	return func(s *SVG) {
		s.title = title
	}
}

// NewSVG creates an empty width x height document.
func NewSVG(width, height int, opts ...SVGOption) (*SVG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	s := &SVG{
		width:     width,
		height:    height,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restart()
	return s, nil
}

// restart discards everything drawn so far.
func (s *SVG) restart() {
	s.buf.Reset()
	s.doc = svg.New(&s.buf)
	s.doc.Start(s.width, s.height)
	if s.title != "" {
		s.doc.Title(s.title)
	}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) SetFill(c color.Color)   { s.fill = c }
func (s *SVG) SetStroke(c color.Color) { s.stroke = c }
func (s *SVG) SetLineWidth(w float64)  { s.lineWidth = w }
func (s *SVG) BeginPath()              { s.path.reset() }
func (s *SVG) MoveTo(x, y float64)     { s.path.moveTo(x, y) }
func (s *SVG) LineTo(x, y float64)     { s.path.lineTo(x, y) }
func (s *SVG) ClosePath()              { s.path.closePath() }

func (s *SVG) Arc(x, y, r, start, end float64) {
	s.path.arc(x, y, r, start, end)
}

func (s *SVG) Rect(x, y, w, h float64) {
	s.path.rect(x, y, w, h)
}

func (s *SVG) Fill() {
	if transparent(s.fill) || s.path.empty() {
		return
	}
	s.doc.Path(s.pathData(), "fill:"+hexOf(s.fill)+opacity("fill", s.fill)+";stroke:none")
}

func (s *SVG) Stroke() {
	if transparent(s.stroke) || s.lineWidth <= 0 || s.path.empty() {
		return
	}
	s.doc.Path(s.pathData(), fmt.Sprintf(
		"fill:none;stroke:%s%s;stroke-width:%s;stroke-linejoin:round;stroke-linecap:round",
		hexOf(s.stroke), opacity("stroke", s.stroke), num(s.lineWidth)))
}

// FillRect covering the whole canvas with an opaque color starts a new
// document, since nothing underneath can show through.
func (s *SVG) FillRect(x, y, w, h float64) {
	if transparent(s.fill) || w == 0 || h == 0 {
		return
	}
	if _, _, _, a := s.fill.RGBA(); a == 0xffff &&
		x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.restart()
	}
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	s.doc.Rect(round(x), round(y), round(w), round(h), "fill:"+hexOf(s.fill)+opacity("fill", s.fill))
}

func (s *SVG) FillText(x, y float64, text string) {
	if transparent(s.fill) || text == "" {
		return
	}
	s.doc.Text(round(x), round(y), text, "font-family:monospace;font-size:13px;fill:"+hexOf(s.fill))
}

// Encode writes the document drawn so far, closed with </svg>.
func (s *SVG) Encode(w io.Writer) error {
	if _, err := w.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	svg.New(w).End()
	return nil
}

func (s *SVG) pathData() string {
	var b strings.Builder
	for _, sp := range s.path.subs {
		if len(sp.pts) == 0 {
			continue
		}
		for i, pt := range sp.pts {
			if i == 0 {
				b.WriteString("M")
			} else {
				b.WriteString(" L")
			}
			b.WriteString(num(pt.X))
			b.WriteString(",")
			b.WriteString(num(pt.Y))
		}
		if sp.closed {
			b.WriteString(" Z")
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func hexOf(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "none"
	}
	// Un-premultiply.
	r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func opacity(prop string, c color.Color) string {
	_, _, _, a := c.RGBA()
	if a == 0xffff {
		return ""
	}
	return ";" + prop + "-opacity:" + num(float64(a)/0xffff)
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func round(v float64) int {
	return int(math.Round(v))
}
