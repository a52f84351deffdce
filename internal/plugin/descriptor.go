package plugin

import "sort"

// BaseOwner names capabilities that were on the sink before Install.
const BaseOwner = "<base>"

// Descriptor declares a named capability bundle.
type Descriptor[F any] struct {
	// Name uniquely identifies the plugin within one Install call.
	Name string
	// Description is logged when the plugin is added.
	Description string
	// Requires lists plugin names that must be supplied alongside this one.
	Requires []string
	// Funcs maps capability names to implementations.
	Funcs map[string]F
}

// FuncNames returns the capability names in sorted order.
func (d Descriptor[F]) FuncNames() []string {
	names := make([]string, 0, len(d.Funcs))
	for name := range d.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sink is the mutable capability set plugins are merged onto.
type Sink[F any] interface {
	// HasCapability reports whether name is already present.
	HasCapability(name string) bool
	// SetCapability adds or replaces a capability.
	SetCapability(name string, fn F)
}

// Edge is a (consumer, required) pair taken from a descriptor's Requires.
type Edge struct {
	Consumer string
	Required string
}

// Edges materializes the dependency edges of a plugin set in declaration order.
func Edges[F any](plugins []Descriptor[F]) []Edge {
	var edges []Edge
	for _, p := range plugins {
		for _, r := range p.Requires {
			edges = append(edges, Edge{Consumer: p.Name, Required: r})
		}
	}
	return edges
}

// Names returns the plugin names in declaration order.
func Names[F any](plugins []Descriptor[F]) []string {
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name)
	}
	return names
}

// Info is a function-free summary of a descriptor.
type Info struct {
	Name        string
	Description string
	Requires    []string
	Funcs       []string
}

// Describe summarizes a plugin set for display.
func Describe[F any](plugins []Descriptor[F]) []Info {
	infos := make([]Info, 0, len(plugins))
	for _, p := range plugins {
		req := make([]string, len(p.Requires))
		copy(req, p.Requires)
		infos = append(infos, Info{
			Name:        p.Name,
			Description: p.Description,
			Requires:    req,
			Funcs:       p.FuncNames(),
		})
	}
	return infos
}
