package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/config/loader"
	"github.com/dshills/mattex/internal/logging"
	"github.com/dshills/mattex/internal/plugins/builtin"
	"github.com/dshills/mattex/internal/style"
)

// Config is the decoded mattex configuration.
type Config struct {
	Surface SurfaceConfig `mapstructure:"surface"`
	Output  OutputConfig  `mapstructure:"output"`
	Script  string        `mapstructure:"script"`
	Plugins PluginsConfig `mapstructure:"plugins"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SurfaceConfig sizes the drawing surface.
type SurfaceConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// Unit overrides the derived unit when set.
	Unit       *float64 `mapstructure:"unit"`
	Background string   `mapstructure:"background"`
}

// OutputConfig says where frames are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// PluginsConfig selects built-in plugins and the collision policy.
type PluginsConfig struct {
	Builtin []string `mapstructure:"builtin"`
	Strict  bool     `mapstructure:"strict"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Surface: SurfaceConfig{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		Output: OutputConfig{
			Dir:    "out",
			Format: string(canvas.FormatPNG),
		},
		Plugins: PluginsConfig{
			Builtin: builtin.Names(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Defaults returns the built-in configuration as a map, the bottom layer.
func Defaults() map[string]any {
	d := Default()
	plugins := make([]any, len(d.Plugins.Builtin))
	for i, name := range d.Plugins.Builtin {
		plugins[i] = name
	}
	return map[string]any{
		"surface": map[string]any{
			"width":      d.Surface.Width,
			"height":     d.Surface.Height,
			"background": d.Surface.Background,
		},
		"output": map[string]any{
			"dir":    d.Output.Dir,
			"format": d.Output.Format,
		},
		"plugins": map[string]any{
			"builtin": plugins,
			"strict":  d.Plugins.Strict,
		},
		"logging": map[string]any{
			"level": d.Logging.Level,
		},
	}
}

// Result is the outcome of Load.
type Result struct {
	Config Config
	// File is the config file that was read, or "".
	File string
	// Unused lists keys no setting consumed, sorted.
	Unused []string
}

type options struct {
	fs        loader.FileSystem
	file      string
	envPrefix string
	overrides map[string]any
}

// Option configures Load.
type Option func(*options)

// WithFile reads path as the config file. A missing file is an error.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithFS sets the file system used to read the config file.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix sets the environment prefix. An empty prefix disables the
// environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithOverrides adds the top layer, usually built from command-line flags.
func WithOverrides(m map[string]any) Option {
	return func(o *options) {
		o.overrides = loader.DeepMerge(o.overrides, m)
	}
}

// Load merges all layers, decodes them and validates the result.
func Load(opts ...Option) (*Result, error) {
	o := options{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Defaults()

	if o.file != "" {
		if _, err := o.fs.Stat(o.file); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.file)
		}
		l, err := loader.ForPath(o.fs, o.file)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if o.envPrefix != "" {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	merged = loader.DeepMerge(merged, o.overrides)

	cfg, unused, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Result{Config: cfg, File: o.file, Unused: unused}, nil
}

// Decode converts a merged map into a Config. It returns the keys that did
// not match any setting.
func Decode(m map[string]any) (Config, []string, error) {
	var cfg Config
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToSliceHook,
		Metadata:         &md,
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("config decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return cfg, nil, fmt.Errorf("decoding config: %w", err)
	}
	sort.Strings(md.Unused)
	return cfg, md.Unused, nil
}

// stringToSliceHook splits "a,b" into a list so MATTEX_PLUGINS works.
func stringToSliceHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Surface.Width <= 0 {
		add("surface.width", "must be positive", c.Surface.Width)
	}
	if c.Surface.Height <= 0 {
		add("surface.height", "must be positive", c.Surface.Height)
	}
	if c.Surface.Unit != nil && *c.Surface.Unit <= 0 {
		add("surface.unit", "must be positive", *c.Surface.Unit)
	}
	if _, err := style.ParseColor(c.Surface.Background); err != nil {
		add("surface.background", "not a color", c.Surface.Background)
	}
	if _, err := canvas.ParseFormat(c.Output.Format); err != nil {
		add("output.format", "must be png, bmp, tiff or svg", c.Output.Format)
	}
	if c.Output.Dir == "" {
		add("output.dir", "must not be empty", c.Output.Dir)
	}
	for _, name := range c.Plugins.Builtin {
		if _, err := builtin.Select([]string{name}); err != nil {
			add("plugins.builtin", "unknown plugin", name)
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		add("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	return errors.Join(errs...)
}

// Format returns the parsed output format.
func (c Config) Format() canvas.Format {
	f, err := canvas.ParseFormat(c.Output.Format)
	if err != nil {
		return canvas.FormatPNG
	}
	return f
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
