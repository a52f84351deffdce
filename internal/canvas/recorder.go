package canvas

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// Op is one recorded Context call.
type Op struct {
	Name string
	Args []float64
	// Text holds the string argument of FillText, or the hex color of
	// SetFill and SetStroke.
	Text string
}

func (o Op) String() string {
	parts := make([]string, 0, len(o.Args)+1)
	for _, a := range o.Args {
		parts = append(parts, num(a))
	}
	if o.Text != "" {
		parts = append(parts, o.Text)
	}
	return o.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Recorder is a Context that only records calls. It draws nothing.
type Recorder struct {
	width, height int
	ops           []Op

	fill      color.Color
	stroke    color.Color
	lineWidth float64
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
	}
}

// Ops returns the recorded calls.
func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Names returns the names of the recorded calls, in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.ops))
	for i, op := range r.ops {
		names[i] = op.Name
	}
	return names
}

// Find returns the recorded calls with the given name.
func (r *Recorder) Find(name string) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
}

// FillColor returns the current fill color.
func (r *Recorder) FillColor() color.Color { return r.fill }

// StrokeColor returns the current stroke color.
func (r *Recorder) StrokeColor() color.Color { return r.stroke }

// LineWidth returns the current line width.
func (r *Recorder) LineWidth() float64 { return r.lineWidth }

func (r *Recorder) record(name string, text string, args ...float64) {
	r.ops = append(r.ops, Op{Name: name, Args: args, Text: text})
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) SetFill(c color.Color) {
	r.fill = c
	r.record("SetFill", hexOf(c))
}

func (r *Recorder) SetStroke(c color.Color) {
	r.stroke = c
	r.record("SetStroke", hexOf(c))
}

func (r *Recorder) SetLineWidth(w float64) {
	r.lineWidth = w
	r.record("SetLineWidth", "", w)
}

func (r *Recorder) BeginPath()          { r.record("BeginPath", "") }
func (r *Recorder) MoveTo(x, y float64) { r.record("MoveTo", "", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.record("LineTo", "", x, y) }
func (r *Recorder) ClosePath()          { r.record("ClosePath", "") }
func (r *Recorder) Fill()               { r.record("Fill", "") }
func (r *Recorder) Stroke()             { r.record("Stroke", "") }

func (r *Recorder) Arc(x, y, radius, start, end float64) {
	r.record("Arc", "", x, y, radius, start, end)
}

func (r *Recorder) Rect(x, y, w, h float64) {
	r.record("Rect", "", x, y, w, h)
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.record("FillRect", "", x, y, w, h)
}

func (r *Recorder) FillText(x, y float64, s string) {
	r.record("FillText", s, x, y)
}

// Encode writes one recorded call per line.
func (r *Recorder) Encode(w io.Writer) error {
	for _, op := range r.ops {
		if _, err := fmt.Fprintln(w, op.String()); err != nil {
			return err
		}
	}
	return nil
}
