// Package builtin provides the plugins compiled into mattex.
//
//	shapes  triangle, polygon, star
//	text    label
//	axes    grid, axes (requires shapes and text)
//
// Plugin functions resolve the capabilities they depend on by name through
// Surface.Call, so a plugin installed later can replace them.
package builtin

import (
	"errors"
	"fmt"

	"github.com/dshills/mattex/internal/plugin"
	"github.com/dshills/mattex/internal/surface"
)

// Plugin names.
const (
	Shapes = "shapes"
	Text   = "text"
	Axes   = "axes"
)

// ErrUnknownPlugin is returned by Select for a name that is not built in.
var ErrUnknownPlugin = errors.New("unknown builtin plugin")

// Names lists the builtin plugins in install order.
func Names() []string {
	return []string{Shapes, Text, Axes}
}

// All returns every builtin plugin descriptor.
func All() []plugin.Descriptor[surface.Capability] {
	return []plugin.Descriptor[surface.Capability]{ShapesPlugin(), TextPlugin(), AxesPlugin()}
}

// Select returns the descriptors for names, in the order given.
// Requirements are not added automatically; Install reports them.
func Select(names []string) ([]plugin.Descriptor[surface.Capability], error) {
	byName := make(map[string]plugin.Descriptor[surface.Capability])
	for _, d := range All() {
		byName[d.Name] = d
	}

	out := make([]plugin.Descriptor[surface.Capability], 0, len(names))
	var errs []error
	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPlugin, name))
			continue
		}
		out = append(out, d)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
