package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

var errNotObject = errors.New("top level must be an object")

// JSONLoader loads configuration from JSON files.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a JSON loader for path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{fs: DefaultFS(), path: path}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{fs: fs, path: path}
}

// Load reads configuration from the configured path.
func (l *JSONLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *JSONLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := readFile(l.fs, path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *JSONLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.parse("<reader>", data)
}

func (l *JSONLoader) parse(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, &ParseError{Path: source, Message: errNotObject.Error(), Err: errNotObject}
	}
	config, _ := res.Value().(map[string]any)
	return config, nil
}
