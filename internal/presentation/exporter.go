package presentation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dshills/mattex/internal/canvas"
	"github.com/dshills/mattex/internal/surface"
)

// Exporter receives each frame after its scene draws.
type Exporter interface {
	// Export stores the frame and returns where it went, or "".
	Export(index int, scene string, s *surface.Surface) (string, error)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(index int, scene string, s *surface.Surface) (string, error)

// Export calls f.
func (f ExporterFunc) Export(index int, scene string, s *surface.Surface) (string, error) {
	return f(index, scene, s)
}

// Discard drops every frame.
var Discard Exporter = ExporterFunc(func(int, string, *surface.Surface) (string, error) {
	return "", nil
})

// FileExporter writes each frame to Dir as <NNN>-<scene>.<ext>.
type FileExporter struct {
	Dir    string
	Format canvas.Format
}

// NewFileExporter creates dir if needed.
func NewFileExporter(dir string, format canvas.Format) (*FileExporter, error) {
	f, err := canvas.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileExporter{Dir: dir, Format: f}, nil
}

// FrameName returns the file name used for a frame.
func (e *FileExporter) FrameName(index int, scene string) string {
	return fmt.Sprintf("%03d-%s.%s", index+1, slug(scene), e.Format.Ext())
}

// Export encodes the surface's context and writes it atomically.
func (e *FileExporter) Export(index int, scene string, s *surface.Surface) (string, error) {
	enc, ok := s.Context().(canvas.Encoder)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrNotEncodable, s.Context())
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}

	path := filepath.Join(e.Dir, e.FrameName(index, scene))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write frame: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write frame: %w", err)
	}
	return path, nil
}

// slug keeps letters, digits, '-' and '_'; other runs become one '-'.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "scene"
	}
	return out
}
