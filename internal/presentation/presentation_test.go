package presentation

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

func newSurface(t *testing.T, ctx canvas.Context) *surface.Surface {
	t.Helper()
	s, err := surface.New(ctx, surface.WithUnit(10))
	require.NoError(t, err)
	return s
}

func scene(name string, fn func(s *surface.Surface) error) Scene {
	return SceneFunc{Title: name, Fn: func(_ context.Context, s *surface.Surface) error {
		return fn(s)
	}}
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoSurface)

	s := newSurface(t, canvas.NewRecorder(10, 10))
	p, err := New(s, []Scene{scene("a", nil), scene("b", nil)})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, []string{"a", "b"}, p.Scenes())
	assert.Same(t, s, p.Surface())

	id := uuid.New()
	p, err = New(s, nil, WithID(id))
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
}

func TestRun_NoScenes(t *testing.T) {
	p, err := New(newSurface(t, canvas.NewRecorder(10, 10)), nil)
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoScenes)
}

func TestRun_ClearsBeforeEachScene(t *testing.T) {
	rec := canvas.NewRecorder(100, 100)
	s := newSurface(t, rec)

	var seen [][]string
	record := func(s *surface.Surface) error {
		seen = append(seen, rec.Names())
		rec.Reset()
		return s.Circle(1, 1, 1, style.DefaultColorDetails(), style.DefaultProperties())
	}
	p, err := New(s, []Scene{scene("one", record), scene("two", record)})
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Frames, 2)
	assert.Equal(t, "one", report.Frames[0].Scene)
	assert.Equal(t, 1, report.Frames[1].Index)
	assert.Equal(t, p.ID, report.ID)

	require.Len(t, seen, 2)
	for _, names := range seen {
		require.NotEmpty(t, names)
		assert.Equal(t, "FillRect", names[len(names)-1])
	}
}

func TestRun_Background(t *testing.T) {
	rec := canvas.NewRecorder(10, 10)
	p, err := New(newSurface(t, rec),
		[]Scene{scene("a", func(*surface.Surface) error { return nil })},
		WithBackground(style.Solid(style.Blue)))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, style.Blue, rec.FillColor())
}

func TestRun_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	mk := func(name string, err error) Scene {
		return scene(name, func(*surface.Surface) error {
			ran = append(ran, name)
			return err
		})
	}

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	p, err := New(newSurface(t, canvas.NewRecorder(10, 10)),
		[]Scene{mk("ok", nil), mk("bad", boom), mk("never", nil)}, WithLogger(logger))
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"ok", "bad"}, ran)
	assert.Len(t, report.Frames, 1)

	var se *SceneError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad", se.Scene)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, "scene 2 (bad): boom", se.Error())
	assert.Contains(t, buf.String(), "scene bad failed")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran int
	first := scene("first", func(*surface.Surface) error {
		ran++
		cancel()
		return nil
	})
	second := scene("second", func(*surface.Surface) error {
		ran++
		return nil
	})

	p, err := New(newSurface(t, canvas.NewRecorder(10, 10)), []Scene{first, second})
	require.NoError(t, err)

	report, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ran)
	assert.Len(t, report.Frames, 1)
}

func TestRun_ExportError(t *testing.T) {
	fail := ExporterFunc(func(int, string, *surface.Surface) (string, error) {
		return "", os.ErrPermission
	})
	p, err := New(newSurface(t, canvas.NewRecorder(10, 10)),
		[]Scene{scene("a", func(*surface.Surface) error { return nil })}, WithExporter(fail))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestFileExporter_PNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	exp, err := NewFileExporter(dir, canvas.FormatPNG)
	require.NoError(t, err)

	r, err := canvas.NewRaster(40, 30)
	require.NoError(t, err)
	s := newSurface(t, r)

	p, err := New(s, []Scene{
		scene("Title Card!", func(s *surface.Surface) error {
			s.Bg(style.Solid(style.Red))
			return nil
		}),
	}, WithExporter(exp))
	require.NoError(t, err)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Frames, 1)

	want := filepath.Join(dir, "001-title-card.png")
	assert.Equal(t, want, report.Frames[0].Path)

	f, err := os.Open(want)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	rr, g, b, _ := img.At(20, 15).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{rr, g, b})

	_, err = os.Stat(want + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileExporter_SVG(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewFileExporter(dir, "SVG")
	require.NoError(t, err)
	assert.Equal(t, canvas.FormatSVG, exp.Format)

	ctx, err := canvas.NewSVG(20, 20)
	require.NoError(t, err)
	s := newSurface(t, ctx)

	path, err := exp.Export(4, "axes", s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "005-axes.svg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestFileExporter_Errors(t *testing.T) {
	_, err := NewFileExporter(t.TempDir(), "gif")
	assert.ErrorIs(t, err, canvas.ErrUnknownFormat)

	exp, err := NewFileExporter(t.TempDir(), canvas.FormatPNG)
	require.NoError(t, err)
	_, err = exp.Export(0, "x", newSurface(t, nonEncoder{canvas.NewRecorder(1, 1)}))
	assert.ErrorIs(t, err, ErrNotEncodable)
}

// nonEncoder hides the recorder's Encode method.
type nonEncoder struct {
	canvas.Context
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"intro":         "intro",
		"Title Card!":   "title-card",
		"  spaced  out": "spaced-out",
		"a/b\\c":        "a-b-c",
		"snake_case-ok": "snake_case-ok",
		"!!!":           "scene",
		"":              "scene",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}
