package surface

import (
	"fmt"
	"image/color"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/mattex/internal/style"
)

// Args decodes the untyped argument list of a Capability.
//
// Accessors consume arguments left to right. The first failure is kept and
// every later accessor returns a zero value, so a capability can decode all
// of its arguments and check Err once.
type Args struct {
	name string
	vals []any
	pos  int
	err  error
}

// NewArgs wraps the arguments passed to the capability called name.
func NewArgs(name string, vals []any) *Args {
	return &Args{name: name, vals: vals}
}

// Err returns the first decoding error.
func (a *Args) Err() error {
	return a.err
}

// Len returns the number of arguments.
func (a *Args) Len() int {
	return len(a.vals)
}

// Remaining reports whether unread arguments are left.
func (a *Args) Remaining() bool {
	return a.pos < len(a.vals)
}

// Rest returns the unread arguments and consumes them.
func (a *Args) Rest() []any {
	if a.pos >= len(a.vals) {
		return nil
	}
	rest := a.vals[a.pos:]
	a.pos = len(a.vals)
	return rest
}

func (a *Args) next() (any, bool) {
	if a.err != nil || a.pos >= len(a.vals) {
		return nil, false
	}
	v := a.vals[a.pos]
	a.pos++
	return v, true
}

func (a *Args) peek() any {
	if a.err != nil || a.pos >= len(a.vals) {
		return nil
	}
	return a.vals[a.pos]
}

func (a *Args) fail(want string, got any) {
	if a.err == nil {
		a.err = &ArgError{Capability: a.name, Index: a.pos - 1, Want: want, Got: got}
	}
}

// Float consumes a required number.
func (a *Args) Float() float64 {
	v, ok := a.next()
	if !ok {
		if a.err == nil {
			a.pos++
			a.fail("number", nil)
		}
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		a.fail("number", v)
	}
	return f
}

// OptFloat consumes a number, or returns def when the argument is absent or nil.
func (a *Args) OptFloat(def float64) float64 {
	v, ok := a.next()
	if !ok || v == nil {
		return def
	}
	f, ok := toFloat(v)
	if !ok {
		a.fail("number", v)
		return def
	}
	return f
}

// Str consumes a required string.
func (a *Args) Str() string {
	v, ok := a.next()
	if !ok {
		if a.err == nil {
			a.pos++
			a.fail("string", nil)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		a.fail("string", v)
	}
	return s
}

// Text consumes a required string or number and formats it.
func (a *Args) Text() string {
	v, ok := a.next()
	if !ok {
		if a.err == nil {
			a.pos++
			a.fail("text", nil)
		}
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	a.fail("text", v)
	return ""
}

// Colors consumes a color argument. It accepts a style.ColorDetails, a map
// with "stroke" and "fill" keys, or a color string optionally followed by a
// second color string for the fill. A single string is used for both.
func (a *Args) Colors(def style.ColorDetails) style.ColorDetails {
	v, ok := a.next()
	if !ok || v == nil {
		return def
	}
	switch c := v.(type) {
	case style.ColorDetails:
		return c
	case *style.ColorDetails:
		if c == nil {
			return def
		}
		return *c
	case color.RGBA:
		return style.Solid(c)
	case string:
		stroke, err := style.ParseColor(c)
		if err != nil {
			a.fail("color", v)
			return def
		}
		fill := stroke
		if next, ok := a.peek().(string); ok {
			a.pos++
			if fill, err = style.ParseColor(next); err != nil {
				a.fail("fill color", next)
				return def
			}
		}
		return style.ColorDetails{Stroke: stroke, Fill: fill}
	case map[string]any:
		out := def
		if err := decodeMap(c, &out); err != nil {
			a.fail("{stroke, fill} table: "+err.Error(), v)
			return def
		}
		return out
	default:
		a.fail("color", v)
		return def
	}
}

// Props consumes a style.Properties, a stroke width number, or a map with
// an "sw" key.
func (a *Args) Props(def style.Properties) style.Properties {
	v, ok := a.next()
	if !ok || v == nil {
		return def
	}
	switch p := v.(type) {
	case style.Properties:
		return p
	case map[string]any:
		out := def
		if err := decodeMap(p, &out); err != nil {
			a.fail("{sw} table: "+err.Error(), v)
			return def
		}
		return out
	default:
		if f, ok := toFloat(v); ok {
			return style.Properties{StrokeWidth: f}
		}
		a.fail("properties", v)
		return def
	}
}

// Func consumes a required graph function.
func (a *Args) Func() GraphFunc {
	v, ok := a.next()
	if !ok {
		if a.err == nil {
			a.pos++
			a.fail("function", nil)
		}
		return nil
	}
	switch f := v.(type) {
	case GraphFunc:
		return f
	case func(float64) (float64, error):
		return f
	case func(float64) float64:
		return Plain(f)
	default:
		a.fail("function", v)
		return nil
	}
}

// DrawOptions consumes an optional trailing unit override.
func (a *Args) DrawOptions() []DrawOption {
	v, ok := a.next()
	if !ok || v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f <= 0 {
		a.fail("positive unit", v)
		return nil
	}
	return []DrawOption{WithUnitOverride(f)}
}

// Done returns Err, or an error when unread arguments remain.
func (a *Args) Done() error {
	if a.err != nil {
		return a.err
	}
	if a.pos < len(a.vals) {
		return &ArgError{Capability: a.name, Index: a.pos, Want: "no more arguments", Got: a.vals[a.pos]}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

var rgbaType = reflect.TypeOf(color.RGBA{})

// colorHook lets maps carry colors as strings.
func colorHook(from, to reflect.Type, data any) (any, error) {
	if to != rgbaType || from.Kind() != reflect.String {
		return data, nil
	}
	return style.ParseColor(reflect.ValueOf(data).String())
}

func decodeMap(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       colorHook,
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	return dec.Decode(in)
}
