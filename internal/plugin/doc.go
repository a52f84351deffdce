// Package plugin composes plugin capability bundles onto a capability sink.
//
// A plugin is described by a Descriptor: a unique name, a human readable
// description, the names of the plugins it requires, and the functions it
// contributes. The package is generic over the function type so any host
// can use it; mattex installs surface.Capability functions onto a
// *surface.Surface.
//
// # Installing
//
//	reg := plugin.NewRegistry(plugin.WithLogger(logger))
//	err := plugin.Install(reg, surf, []plugin.Descriptor[surface.Capability]{
//	    {Name: "shapes", Funcs: map[string]surface.Capability{"star": star}},
//	    {Name: "axes", Requires: []string{"shapes"}, Funcs: ...},
//	})
//
// Install is all-or-nothing. Every declared requirement must name a plugin
// in the same call; otherwise nothing is written to the sink and the
// returned *InstallError lists every unmet requirement, not just the first.
//
// The check is presence-only. Plugins that require each other are accepted
// as long as both are supplied; no install order is computed.
//
// # Collisions
//
// Functions are merged in descriptor order, so a later plugin overwrites an
// earlier one (or a base capability already on the sink) that uses the same
// name. Every overwrite is logged at WARN. Registries created with
// WithStrictCollisions refuse such installs instead.
package plugin
