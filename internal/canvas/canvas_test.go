package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{" svg ", FormatSVG, false},
		{"tif", FormatTIFF, false},
		{"bmp", FormatBMP, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q): expected ErrUnknownFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	ctx, err := New(FormatSVG, 10, 10)
	if err != nil {
		t.Fatalf("New(svg): %v", err)
	}
	if _, ok := ctx.(*SVG); !ok {
		t.Errorf("expected *SVG, got %T", ctx)
	}

	ctx, err = New(FormatBMP, 10, 10)
	if err != nil {
		t.Fatalf("New(bmp): %v", err)
	}
	if r, ok := ctx.(*Raster); !ok || r.Format() != FormatBMP {
		t.Errorf("expected bmp *Raster, got %T", ctx)
	}

	if _, err := New(FormatPNG, 0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := New("gif", 10, 10); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRasterFillRect(t *testing.T) {
	r, err := NewRaster(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	r.SetFill(red)
	r.FillRect(0, 0, 10, 10)

	if got := r.Image().RGBAAt(5, 5); got != red {
		t.Errorf("inside pixel = %v, want %v", got, red)
	}
	if got := r.Image().RGBAAt(15, 15); got.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestRasterFillCircle(t *testing.T) {
	r, _ := NewRaster(100, 100)
	r.BeginPath()
	r.Arc(50, 50, 20, 0, 2*math.Pi)
	r.SetFill(blue)
	r.Fill()

	if got := r.Image().RGBAAt(50, 50); got != blue {
		t.Errorf("center pixel = %v, want %v", got, blue)
	}
	if got := r.Image().RGBAAt(50, 25); got.A != 0 {
		t.Errorf("pixel outside radius = %v, want transparent", got)
	}
}

func TestRasterStroke(t *testing.T) {
	r, _ := NewRaster(100, 100)
	r.SetStroke(red)
	r.SetLineWidth(4)
	r.BeginPath()
	r.MoveTo(10, 50)
	r.LineTo(90, 50)
	r.Stroke()

	if got := r.Image().RGBAAt(50, 50); got != red {
		t.Errorf("pixel on line = %v, want %v", got, red)
	}
	if got := r.Image().RGBAAt(50, 40); got.A != 0 {
		t.Errorf("pixel off line = %v, want transparent", got)
	}
}

func TestRasterTransparentIsNoop(t *testing.T) {
	r, _ := NewRaster(10, 10)
	r.SetFill(color.RGBA{})
	r.FillRect(0, 0, 10, 10)
	r.SetStroke(nil)
	r.BeginPath()
	r.Rect(1, 1, 5, 5)
	r.Stroke()

	for _, px := range r.Image().Pix {
		if px != 0 {
			t.Fatal("transparent paint modified the image")
		}
	}
}

func TestRasterFillText(t *testing.T) {
	r, _ := NewRaster(60, 30)
	r.SetFill(color.Black)
	r.FillText(5, 20, "Hi")

	painted := false
	for y := 5; y < 22 && !painted; y++ {
		for x := 5; x < 20; x++ {
			if r.Image().RGBAAt(x, y).A != 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("expected text pixels near the baseline")
	}
	if w := r.MeasureText("Hi"); w != 14 {
		t.Errorf("MeasureText = %v, want 14", w)
	}
}

func TestRasterEncode(t *testing.T) {
	r, _ := NewRaster(16, 8)
	r.SetFill(red)
	r.FillRect(0, 0, 16, 8)

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("Encode png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("decoded bounds = %v", b)
	}

	r, _ = NewRaster(16, 8, WithFormat(FormatBMP))
	buf.Reset()
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("Encode bmp: %v", err)
	}
	if _, err := bmp.Decode(&buf); err != nil {
		t.Errorf("bmp.Decode: %v", err)
	}
}

func TestSVGPaths(t *testing.T) {
	s, err := NewSVG(40, 30, WithTitle("frame"))
	if err != nil {
		t.Fatal(err)
	}
	s.BeginPath()
	s.MoveTo(10, 10)
	s.LineTo(20, 10)
	s.LineTo(20, 20)
	s.ClosePath()
	s.SetFill(red)
	s.Fill()
	s.SetStroke(blue)
	s.SetLineWidth(2.5)
	s.Stroke()

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="40"`,
		`<title>frame</title>`,
		`d="M10,10 L20,10 L20,20 Z M10,10"`,
		`fill:#ff0000;stroke:none`,
		`stroke:#0000ff;stroke-width:2.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("document not closed:\n%s", out)
	}

	var again bytes.Buffer
	_ = s.Encode(&again)
	if again.String() != out {
		t.Error("Encode should not modify the document")
	}
}

func TestSVGFullFillRestarts(t *testing.T) {
	s, _ := NewSVG(40, 30)
	s.SetFill(red)
	s.BeginPath()
	s.Rect(1, 1, 2, 2)
	s.Fill()
	s.SetFill(color.White)
	s.FillRect(0, 0, 40, 30)

	var buf bytes.Buffer
	_ = s.Encode(&buf)
	out := buf.String()
	if strings.Contains(out, "<path") {
		t.Errorf("paths under an opaque full-canvas fill should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "fill:#ffffff") {
		t.Errorf("background rect missing:\n%s", out)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(10, 20)
	r.SetLineWidth(3)
	r.BeginPath()
	r.Arc(1, 2, 3, 0, math.Pi)
	r.Stroke()
	r.FillText(4, 5, "x")

	want := []string{"SetLineWidth", "BeginPath", "Arc", "Stroke", "FillText"}
	got := r.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if r.LineWidth() != 3 {
		t.Errorf("LineWidth() = %v", r.LineWidth())
	}
	if ops := r.Find("FillText"); len(ops) != 1 || ops[0].Text != "x" {
		t.Errorf("Find(FillText) = %v", ops)
	}

	var buf bytes.Buffer
	_ = r.Encode(&buf)
	if !strings.Contains(buf.String(), "Arc(1, 2, 3, 0, 3.14)") {
		t.Errorf("Encode output:\n%s", buf.String())
	}

	r.Reset()
	if len(r.Ops()) != 0 {
		t.Error("Reset should discard ops")
	}
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		start, end, want float64
	}{
		{0, 2 * math.Pi, 2 * math.Pi},
		{0, 3 * math.Pi, 2 * math.Pi},
		{0, math.Pi / 2, math.Pi / 2},
		{math.Pi, 0, math.Pi},
	}
	for _, tt := range tests {
		if got := arcSweep(tt.start, tt.end); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("arcSweep(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}
