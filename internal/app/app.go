// Package app wires configuration, the drawing surface, plugins and scene
// scripts into a runnable presentation.
package app

import (
	"context"
	"io"
	"os"

	"github.com/dshills/mattex/internal/config"
	"github.com/dshills/mattex/internal/logging"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// defaults and environment only.
	ConfigPath string

	// Overrides are settings from the command line, keyed like the
	// config file ("surface.width" lives at Overrides["surface"]["width"]).
	Overrides map[string]any

	// EnvPrefix overrides the environment prefix. Use "-" to disable the
	// environment layer.
	EnvPrefix string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application holds the loaded configuration and logger.
type Application struct {
	opts   Options
	cfg    config.Config
	file   string
	logger *logging.Logger
}

// New loads configuration and creates the logger.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.loadConfig(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	return app, nil
}

func (app *Application) loadConfig() error {
	copts := []config.Option{config.WithOverrides(app.opts.Overrides)}
	if app.opts.ConfigPath != "" {
		copts = append(copts, config.WithFile(app.opts.ConfigPath))
	}
	switch app.opts.EnvPrefix {
	case "":
	case "-":
		copts = append(copts, config.WithEnvPrefix(""))
	default:
		copts = append(copts, config.WithEnvPrefix(app.opts.EnvPrefix))
	}

	res, err := config.Load(copts...)
	if err != nil {
		return err
	}
	app.cfg = res.Config
	app.file = res.File

	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	app.logger = logging.New(logging.Config{
		Level:  res.Config.LogLevel(),
		Output: out,
		Prefix: "mattex",
	})
	for _, key := range res.Unused {
		app.logger.Warn("unknown config key %s", key)
	}
	return nil
}

// Config returns the loaded configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Reload reads the configuration again. On failure the previous
// configuration is kept.
func (app *Application) Reload() error {
	prev := *app
	if err := app.loadConfig(); err != nil {
		*app = prev
		return err
	}
	return nil
}

// Render builds a session, runs every scene and writes the frames to the
// configured output directory.
func (app *Application) Render(ctx context.Context) (*Result, error) {
	sess, err := app.Build(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()
	return sess.Render(ctx)
}
