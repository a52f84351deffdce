package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mattex/internal/config"
	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/plugins/builtin"
)

const ringsScript = `
local mx = require("mx")

mx.plugin{
	name = "rings",
	description = "concentric circles",
	requires = { "shapes" },
	funcs = {
		rings = function(x, y, n)
			for i = 1, n do
				mx.circle(x, y, i)
			end
		end,
	},
}

mx.scene("intro", function()
	mx.call("rings", 4, 3, 2)
end)

mx.scene("outro", function()
	mx.call("star", 4, 3, 2, 1, 5)
end)
`

func overrides(dir string, extra map[string]any) map[string]any {
	m := map[string]any{
		"surface": map[string]any{"width": 80, "height": 60},
		"output":  map[string]any{"dir": dir},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func newApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.EnvPrefix = "-"
	opts.LogOutput = &buf
	app, err := New(opts)
	require.NoError(t, err)
	return app, &buf
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew_Defaults(t *testing.T) {
	app, _ := newApp(t, Options{})
	cfg := app.Config()
	assert.Equal(t, 800, cfg.Surface.Width)
	assert.Equal(t, 600, cfg.Surface.Height)
	assert.Equal(t, builtin.Names(), cfg.Plugins.Builtin)
	assert.NotNil(t, app.Logger())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Options{
		EnvPrefix: "-",
		Overrides: map[string]any{"surface": map[string]any{"width": -1}},
	})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "config", ie.Component)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestNew_WarnsUnknownKeys(t *testing.T) {
	_, buf := newApp(t, Options{Overrides: map[string]any{"bogus": 1}})
	assert.Contains(t, buf.String(), "unknown config key bogus")
}

func TestRender_DemoScenes(t *testing.T) {
	dir := t.TempDir()
	app, _ := newApp(t, Options{Overrides: overrides(dir, nil)})

	res, err := app.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Report.Frames, 2)
	assert.Equal(t, dir, res.Dir)
	assert.Len(t, res.Plugins, len(builtin.Names()))

	for _, name := range []string{"001-axes.png", "002-sine.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRender_DemoWithoutPlugins(t *testing.T) {
	dir := t.TempDir()
	app, _ := newApp(t, Options{Overrides: overrides(dir, map[string]any{
		"plugins": map[string]any{"builtin": []any{}},
	})})

	res, err := app.Render(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Report.Frames, 2)
	assert.Empty(t, res.Plugins)
}

func TestRender_Script(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "rings.lua")
	writeFile(t, src, ringsScript)

	app, _ := newApp(t, Options{Overrides: overrides(dir, map[string]any{
		"script": src,
		"output": map[string]any{"dir": dir, "format": "svg"},
	})})

	sess, err := app.Build(context.Background())
	require.NoError(t, err)
	defer sess.Close()
	assert.Equal(t, []string{"intro", "outro"}, sess.Scenes())
	assert.True(t, sess.Surface().HasCapability("rings"))

	infos := sess.Plugins()
	require.Len(t, infos, 4)
	assert.Equal(t, "rings", infos[3].Name)
	assert.Equal(t, []string{"shapes"}, infos[3].Requires)

	res, err := sess.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Report.Frames, 2)

	data, err := os.ReadFile(filepath.Join(dir, "001-intro.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestBuild_UnmetDependency(t *testing.T) {
	src := filepath.Join(t.TempDir(), "rings.lua")
	writeFile(t, src, ringsScript)

	app, _ := newApp(t, Options{Overrides: overrides(t.TempDir(), map[string]any{
		"script":  src,
		"plugins": map[string]any{"builtin": []any{"text"}},
	})})

	_, err := app.Build(context.Background())
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "plugins", ie.Component)
	assert.ErrorIs(t, err, plugin.ErrDependencyNotFound)

	var inst *plugin.InstallError
	require.ErrorAs(t, err, &inst)
	require.Len(t, inst.Dependencies, 1)
	assert.Equal(t, "rings", inst.Dependencies[0].Consumer)
	assert.Equal(t, "shapes", inst.Dependencies[0].Missing)
}

func TestBuild_StrictCollision(t *testing.T) {
	src := filepath.Join(t.TempDir(), "override.lua")
	writeFile(t, src, `
		local mx = require("mx")
		mx.plugin{ name = "mine", funcs = { circle = function() end } }
		mx.scene("a", function() end)
	`)

	base := overrides(t.TempDir(), map[string]any{"script": src})

	app, buf := newApp(t, Options{Overrides: base})
	sess, err := app.Build(context.Background())
	require.NoError(t, err)
	sess.Close()
	assert.Contains(t, buf.String(), "capability overwritten")

	base["plugins"] = map[string]any{"strict": true}
	app, _ = newApp(t, Options{Overrides: base})
	_, err = app.Build(context.Background())
	assert.ErrorIs(t, err, plugin.ErrCapabilityConflict)
}

func TestBuild_ScriptError(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.lua")
	writeFile(t, src, `this is not lua`)

	app, _ := newApp(t, Options{Overrides: overrides(t.TempDir(), map[string]any{"script": src})})
	_, err := app.Build(context.Background())
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "script", ie.Component)
}

func TestFrames(t *testing.T) {
	app, _ := newApp(t, Options{Overrides: overrides(t.TempDir(), map[string]any{
		"output": map[string]any{"format": "svg"},
	})})

	frames, err := app.Frames(context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "axes", frames[0].Name)
	assert.Equal(t, 80, frames[0].Image.Bounds().Dx())
	assert.NotSame(t, frames[0].Image, frames[1].Image)
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mattex.toml")
	writeFile(t, path, "[surface]\nwidth = 120\n")

	app, _ := newApp(t, Options{ConfigPath: path})
	assert.Equal(t, 120, app.Config().Surface.Width)

	writeFile(t, path, "[surface]\nwidth = -5\n")
	err := app.Reload()
	assert.ErrorIs(t, err, config.ErrValidationFailed)
	assert.Equal(t, 120, app.Config().Surface.Width)

	writeFile(t, path, "[surface]\nwidth = 160\n")
	require.NoError(t, app.Reload())
	assert.Equal(t, 160, app.Config().Surface.Width)
}

func TestWatch_NothingToWatch(t *testing.T) {
	app, _ := newApp(t, Options{})
	err := app.Watch(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrWatchUnavailable)
}

func TestWatch_RerendersOnScriptChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "scene.lua")
	writeFile(t, src, `require("mx").scene("one", function() end)`)

	app, _ := newApp(t, Options{Overrides: overrides(dir, map[string]any{"script": src})})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renders := make(chan *Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- app.Watch(ctx, func(res *Result, err error) {
			if err != nil {
				t.Errorf("render: %v", err)
			}
			renders <- res
		}, 10*time.Millisecond)
	}()

	first := receive(t, renders)
	assert.Len(t, first.Report.Frames, 1)

	writeFile(t, src, `
		local mx = require("mx")
		mx.scene("one", function() end)
		mx.scene("two", function() end)
	`)
	second := receive(t, renders)
	assert.Len(t, second.Report.Frames, 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func receive(t *testing.T, ch <-chan *Result) *Result {
	t.Helper()
	select {
	case res := <-ch:
		require.NotNil(t, res)
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for render")
	}
	return nil
}

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	err := &InitError{Component: "canvas", Err: cause}
	assert.Equal(t, "init canvas: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
