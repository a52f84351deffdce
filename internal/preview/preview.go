// Package preview shows rendered frames in the terminal.
//
// Each terminal cell holds two vertically stacked pixels drawn as an upper
// half block: the foreground is the top pixel and the background the
// bottom one. Frames are scaled down to fit, never up.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mattex/internal/logging"
)

// ErrNoFrames is returned by Run when there is nothing to show.
var ErrNoFrames = errors.New("preview: no frames")

const upperHalf = '▀'

// Frame is one rendered scene.
type Frame struct {
	Name  string
	Image image.Image
}

// Viewer pages through frames on a tcell screen.
type Viewer struct {
	screen tcell.Screen
	frames []Frame
	index  int
	logger *logging.Logger
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *Viewer) {
		v.logger = l
	}
}

// NewViewer creates a viewer on screen. The caller initializes and
// finalizes the screen.
func NewViewer(screen tcell.Screen, frames []Frame, opts ...Option) *Viewer {
	v := &Viewer{screen: screen, frames: frames}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.OrNull(v.logger).WithComponent("preview")
	return v
}

// Index returns the frame currently shown.
func (v *Viewer) Index() int {
	return v.index
}

// Run shows frames until q, Escape or Ctrl-C is pressed or ctx is done.
// Right, Space and n go forward; Left and p go back.
func (v *Viewer) Run(ctx context.Context) error {
	if len(v.frames) == 0 {
		return ErrNoFrames
	}
	v.screen.HideCursor()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	v.draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return ctx.Err()
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			v.screen.Sync()
			v.draw()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
			v.draw()
		}
	}
}

// handleKey returns false when the viewer should exit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		v.step(1)
	case tcell.KeyLeft:
		v.step(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ', 'n':
			v.step(1)
		case 'p':
			v.step(-1)
		}
	}
	return true
}

func (v *Viewer) step(d int) {
	v.index = min(max(v.index+d, 0), len(v.frames)-1)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	f := v.frames[v.index]
	if rows > 1 {
		Render(v.screen, f.Image, cols, rows-1)
	}
	status := fmt.Sprintf(" %s  [%d/%d]  ←/→ navigate  q quit", f.Name, v.index+1, len(v.frames))
	drawText(v.screen, 0, rows-1, cols, status, tcell.StyleDefault.Reverse(true))
	v.screen.Show()
	v.logger.Debug("showing frame %d (%s)", v.index+1, f.Name)
}

// Render draws img into the top-left cols x rows cells of screen.
func Render(screen tcell.Screen, img image.Image, cols, rows int) {
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}
	b := img.Bounds()
	scale := fitScale(b.Dx(), b.Dy(), cols, rows*2)
	w := int(float64(b.Dx()) / scale)
	h := int(float64(b.Dy()) / scale)

	for cy := 0; cy < (h+1)/2 && cy < rows; cy++ {
		for cx := 0; cx < w && cx < cols; cx++ {
			top := sample(img, b, cx, cy*2, scale)
			bottom := top
			if cy*2+1 < h {
				bottom = sample(img, b, cx, cy*2+1, scale)
			}
			st := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			screen.SetContent(cx, cy, upperHalf, nil, st)
		}
	}
}

// fitScale returns the pixels-per-cell factor, at least 1.
func fitScale(w, h, maxW, maxH int) float64 {
	s := 1.0
	if w > maxW {
		s = float64(w) / float64(maxW)
	}
	if h > maxH {
		s = max(s, float64(h)/float64(maxH))
	}
	return s
}

func sample(img image.Image, b image.Rectangle, x, y int, scale float64) color.Color {
	px := b.Min.X + int(float64(x)*scale)
	py := b.Min.Y + int(float64(y)*scale)
	return img.At(min(px, b.Max.X-1), min(py, b.Max.Y-1))
}

func toTcell(c color.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func drawText(screen tcell.Screen, x, y, maxW int, s string, st tcell.Style) {
	for _, r := range s {
		if x >= maxW {
			return
		}
		screen.SetContent(x, y, r, nil, st)
		x++
	}
	for ; x < maxW; x++ {
		screen.SetContent(x, y, ' ', nil, st)
	}
}
