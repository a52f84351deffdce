package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of mattex environment variables.
const DefaultEnvPrefix = "MATTEX_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // e.g. "MATTEX_"
	mapping map[string]string // env var -> config path
	lookup  func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MATTEX_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		lookup:  os.Environ,
	}
}

// defaultEnvMapping returns the short names for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "WIDTH":      "surface.width",
		prefix + "HEIGHT":     "surface.height",
		prefix + "UNIT":       "surface.unit",
		prefix + "BACKGROUND": "surface.background",
		prefix + "OUT":        "output.dir",
		prefix + "FORMAT":     "output.format",
		prefix + "SCRIPT":     "script",
		prefix + "PLUGINS":    "plugins.builtin",
		prefix + "STRICT":     "plugins.strict",
		prefix + "LOG_LEVEL":  "logging.level",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.lookup() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			// MATTEX_SURFACE_WIDTH -> surface.width
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts MATTEX_OUTPUT_DIR to output.dir. Words after the
// section are joined in camelCase.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	setting := parts[1]
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return parts[0] + "." + setting
}

// parseValue converts booleans and numbers; everything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
