package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/style"
	"github.com/dshills/mattex/internal/surface"
)

func newSurface(t *testing.T) (*surface.Surface, *canvas.Recorder) {
	t.Helper()
	rec := canvas.NewRecorder(200, 100)
	s, err := surface.New(rec, surface.WithUnit(10))
	require.NoError(t, err)
	return s, rec
}

func load(t *testing.T, src string, opts ...Option) *Script {
	t.Helper()
	s, err := Load(context.Background(), "test.lua", []byte(src), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func drawOnly(t *testing.T, s *Script, surf *surface.Surface) error {
	t.Helper()
	scenes := s.Scenes()
	require.Len(t, scenes, 1)
	return scenes[0].Draw(context.Background(), surf)
}

func TestLoad_DeclaresScenesInOrder(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("first", function() end)
		mx.scene("second", function() end)
	`)

	scenes := s.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, "first", scenes[0].Name())
	assert.Equal(t, "second", scenes[1].Name())
	assert.Equal(t, "test.lua", s.Name())
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := Load(context.Background(), "bad.lua", []byte("this is not lua"))
	require.Error(t, err)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad.lua", se.Script)
}

func TestLoad_RuntimeError(t *testing.T) {
	_, err := Load(context.Background(), "boom.lua", []byte(`error("boom")`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.lua")
	require.NoError(t, os.WriteFile(path, []byte(`require("mx").scene("only", function() end)`), 0o644))

	s, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "deck.lua", s.Name())
	assert.Len(t, s.Scenes(), 1)

	_, err = LoadFile(context.Background(), filepath.Join(dir, "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScene_DrawsOnSurface(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("dots", function()
			mx.bg("#ffffff")
			mx.circle(5, 5, 2, "#ff0000")
			mx.rect(1, 1, 2, 3, {stroke = "#000000", fill = "#00ff00"}, {sw = 0.5})
			mx.line(0, 0, 1, 1)
		end)
	`)
	surf, rec := newSurface(t)

	require.NoError(t, drawOnly(t, s, surf))

	arcs := rec.Find("Arc")
	require.Len(t, arcs, 1)
	assert.Equal(t, []float64{5, 5, 20}, arcs[0].Args[:3])

	rects := rec.Find("Rect")
	require.Len(t, rects, 1)
	assert.Equal(t, []float64{10, 10, 20, 30}, rects[0].Args)
	assert.NotEmpty(t, rec.Find("FillRect"))
}

func TestScene_SurfaceFields(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("center", function()
			mx.line(0, 0, mx.cx / mx.unit, mx.cy / mx.unit)
			assert(mx.width == 200 and mx.height == 100)
		end)
	`)
	surf, rec := newSurface(t)

	require.NoError(t, drawOnly(t, s, surf))
	lines := rec.Find("LineTo")
	require.Len(t, lines, 1)
	assert.Equal(t, []float64{100, 50}, lines[0].Args)
}

func TestScene_UnboundFieldsAfterDraw(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("noop", function() end)
	`)
	surf, _ := newSurface(t)
	require.NoError(t, drawOnly(t, s, surf))
	assert.Equal(t, "nil", s.mod.RawGetString("width").Type().String())
}

func TestScene_UnknownCapabilityKeepsIdentity(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("bad", function() mx.call("hexagon", 1, 2) end)
	`)
	surf, _ := newSurface(t)

	err := drawOnly(t, s, surf)
	require.Error(t, err)
	assert.ErrorIs(t, err, surface.ErrUnknownCapability)
	assert.Contains(t, err.Error(), "hexagon")

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "test.lua", se.Script)
}

func TestScene_ArgumentErrorKeepsIdentity(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("bad", function() mx.circle("x", 1, 2) end)
	`)
	surf, _ := newSurface(t)

	err := drawOnly(t, s, surf)
	assert.ErrorIs(t, err, surface.ErrInvalidArgument)

	var ae *surface.ArgError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, surface.CapCircle, ae.Capability)
	assert.Equal(t, 0, ae.Index)
}

func TestScene_ErrorCanBeCaughtInLua(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("guarded", function()
			local ok = pcall(mx.call, "hexagon")
			assert(not ok)
			mx.clear()
		end)
	`)
	surf, rec := newSurface(t)

	require.NoError(t, drawOnly(t, s, surf))
	assert.NotEmpty(t, rec.Find("FillRect"))
}

func TestScene_Graph(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("curve", function()
			mx.graph(0, 0, 10, 10, function(x) return x * 0.5 end, "#0000ff")
		end)
	`)
	surf, rec := newSurface(t)

	require.NoError(t, drawOnly(t, s, surf))
	require.Len(t, rec.Find("MoveTo"), 1)
	assert.NotEmpty(t, rec.Find("LineTo"))
	require.Len(t, rec.Find("Stroke"), 1)
}

func TestScene_GraphBadReturn(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.scene("curve", function()
			mx.graph(0, 0, 10, 10, function(x) return "up" end)
		end)
	`)
	surf, _ := newSurface(t)

	err := drawOnly(t, s, surf)
	assert.ErrorIs(t, err, ErrBadReturn)
}

func TestScene_Timeout(t *testing.T) {
	s := load(t, `
		require("mx").scene("spin", function() while true do end end)
	`, WithTimeout(50*time.Millisecond))
	surf, _ := newSurface(t)

	err := drawOnly(t, s, surf)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScene_Cancel(t *testing.T) {
	s := load(t, `
		require("mx").scene("spin", function() while true do end end)
	`, WithTimeout(0))
	surf, _ := newSurface(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := s.Scenes()[0].Draw(ctx, surf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScene_AfterClose(t *testing.T) {
	s, err := Load(context.Background(), "x.lua", []byte(`require("mx").scene("a", function() end)`))
	require.NoError(t, err)
	s.Close()
	s.Close()

	surf, _ := newSurface(t)
	err = s.Scenes()[0].Draw(context.Background(), surf)
	assert.ErrorIs(t, err, ErrStateClosed)
}

func TestDrawWithoutSurface(t *testing.T) {
	_, err := Load(context.Background(), "early.lua", []byte(`require("mx").circle(1, 1, 1)`))
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestWithSurface_AtLoadTime(t *testing.T) {
	surf, rec := newSurface(t)
	s := load(t, `
		local mx = require("mx")
		assert(mx.has("circle"))
		assert(not mx.has("triangle"))
		local caps = mx.capabilities()
		assert(#caps == 6)
		mx.clear()
	`, WithSurface(surf))
	assert.NotNil(t, s)
	assert.NotEmpty(t, rec.Find("FillRect"))
}

func TestPlugin_Declared(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.plugin{
			name = "rings",
			description = "concentric circles",
			requires = {"base"},
			funcs = {
				rings = function(x, y, n) for i = 1, n do mx.circle(x, y, i) end end,
				dot = function(x, y) mx.circle(x, y, 0.1) end,
			},
		}
	`)

	plugins := s.Plugins()
	require.Len(t, plugins, 1)
	p := plugins[0]
	assert.Equal(t, "rings", p.Name)
	assert.Equal(t, "concentric circles", p.Description)
	assert.Equal(t, []string{"base"}, p.Requires)
	assert.Equal(t, []string{"dot", "rings"}, p.FuncNames())
}

func TestPlugin_InstalledAndCalled(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.plugin{
			name = "rings",
			funcs = {
				rings = function(x, y, n, col)
					for i = 1, n do mx.circle(x, y, i, col) end
				end,
			},
		}
		mx.scene("use", function()
			mx.call("rings", mx.cx / mx.unit, mx.cy / mx.unit, 3, "#336699")
		end)
	`)
	surf, rec := newSurface(t)

	require.NoError(t, plugin.Install(plugin.NewRegistry(), surf, s.Plugins()))
	assert.True(t, surf.HasCapability("rings"))

	require.NoError(t, drawOnly(t, s, surf))
	arcs := rec.Find("Arc")
	require.Len(t, arcs, 3)
	assert.Equal(t, 30.0, arcs[2].Args[2])
}

func TestPlugin_CalledFromGo(t *testing.T) {
	s := load(t, `
		local mx = require("mx")
		mx.plugin{
			name = "echo",
			funcs = {
				echo = function(x, col, f)
					assert(type(col) == "table" and col.stroke == "#ff0000")
					mx.circle(x, f(2), 1)
				end,
			},
		}
	`)
	surf, rec := newSurface(t)
	require.NoError(t, plugin.Install(plugin.NewRegistry(), surf, s.Plugins()))

	col := style.Solid(style.MustParseColor("#ff0000"))
	err := surf.Call("echo", 4.0, col, func(x float64) float64 { return x * 3 })
	require.NoError(t, err)

	arcs := rec.Find("Arc")
	require.Len(t, arcs, 1)
	assert.Equal(t, []float64{4, 6}, arcs[0].Args[:2])
}

func TestPlugin_Override(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	s := load(t, `
		local mx = require("mx")
		mx.plugin{
			name = "square-dots",
			funcs = { circle = function(x, y, r) mx.rect(x, y, r, r) end },
		}
		mx.scene("use", function() mx.circle(1, 1, 2) end)
	`)
	surf, rec := newSurface(t)
	require.NoError(t, plugin.Install(plugin.NewRegistry(plugin.WithLogger(logger)), surf, s.Plugins()))

	require.NoError(t, drawOnly(t, s, surf))
	assert.Empty(t, rec.Find("Arc"))
	assert.Len(t, rec.Find("Rect"), 1)
	assert.Contains(t, buf.String(), "capability overwritten")
}

func TestPlugin_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing name", `require("mx").plugin{funcs = {}}`},
		{"empty name", `require("mx").plugin{name = "", funcs = {}}`},
		{"bad description", `require("mx").plugin{name = "a", description = 1, funcs = {}}`},
		{"bad requires", `require("mx").plugin{name = "a", requires = "b", funcs = {}}`},
		{"bad requires entry", `require("mx").plugin{name = "a", requires = {1}, funcs = {}}`},
		{"missing funcs", `require("mx").plugin{name = "a"}`},
		{"non-function", `require("mx").plugin{name = "a", funcs = {x = 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), "p.lua", []byte(tt.src))
			assert.ErrorIs(t, err, ErrInvalidPlugin)
		})
	}
}

func TestScene_Invalid(t *testing.T) {
	for _, src := range []string{
		`require("mx").scene()`,
		`require("mx").scene("", function() end)`,
		`require("mx").scene("a", 1)`,
	} {
		_, err := Load(context.Background(), "s.lua", []byte(src))
		assert.ErrorIs(t, err, ErrInvalidScene, src)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Script: "a.lua", Message: "a.lua:1: boom"}
	assert.Equal(t, "script a.lua: a.lua:1: boom", err.Error())

	err = &Error{Script: "a.lua", Err: errors.New("cause")}
	assert.Equal(t, "script a.lua: cause", err.Error())
	assert.True(t, strings.HasPrefix(err.Error(), "script "))
}
