package plugin

import (
	"github.com/dshills/mattex/internal/logging"
)

// Registry installs plugin sets onto capability sinks.
// It holds no state between calls.
type Registry struct {
	logger *logging.Logger
	strict bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for install diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithStrictCollisions makes capability name collisions refuse the install.
func WithStrictCollisions() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// NewRegistry creates a registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNull(r.logger).WithComponent("plugin")
	return r
}

// Strict reports whether collisions refuse the install.
func (r *Registry) Strict() bool {
	return r.strict
}

// Validate checks that every requirement names a supplied plugin.
// It returns nil or an *InstallError listing every unmet requirement.
func Validate[F any](plugins []Descriptor[F]) error {
	known := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		known[p.Name] = true
	}

	var missing []*DependencyError
	for _, p := range plugins {
		for _, r := range p.Requires {
			if !known[r] {
				missing = append(missing, &DependencyError{Consumer: p.Name, Missing: r})
			}
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return &InstallError{
		Dependencies: missing,
		known:        Names(plugins),
		edges:        Edges(plugins),
	}
}

// Install merges every plugin's functions onto sink, in descriptor order.
//
// If any requirement is unmet (or, in strict mode, any capability name
// collides) the sink is left untouched and an *InstallError is returned.
func Install[F any](r *Registry, sink Sink[F], plugins []Descriptor[F]) error {
	if sink == nil {
		return ErrNilSink
	}
	if r == nil {
		r = NewRegistry()
	}
	log := r.logger

	var installErr *InstallError
	if err := Validate(plugins); err != nil {
		installErr = err.(*InstallError)
	}

	collisions := findCollisions(sink, plugins)
	if r.strict && len(collisions) > 0 {
		if installErr == nil {
			installErr = &InstallError{known: Names(plugins), edges: Edges(plugins)}
		}
		installErr.Collisions = collisions
	}

	if installErr != nil {
		log.Error("refusing plugin install: %d unmet dependencies, %d collisions",
			len(installErr.Dependencies), len(installErr.Collisions))
		for _, d := range installErr.Dependencies {
			log.WithFields(map[string]any{"plugin": d.Consumer, "missing": d.Missing}).Error("dependency not found")
		}
		return installErr
	}

	warnDuplicateNames(log, plugins)
	for _, c := range collisions {
		log.WithFields(map[string]any{
			"capability": c.Capability,
			"previous":   c.Previous,
			"plugin":     c.Plugin,
		}).Warn("capability overwritten")
	}

	for _, p := range plugins {
		log.WithField("plugin", p.Name).Info("adding %s: %s", p.Name, p.Description)
		for _, name := range p.FuncNames() {
			sink.SetCapability(name, p.Funcs[name])
		}
	}
	log.Info("added all plugins successfully (%d)", len(plugins))
	return nil
}

// findCollisions replays the merge without touching the sink.
func findCollisions[F any](sink Sink[F], plugins []Descriptor[F]) []*CollisionError {
	owners := make(map[string]string)
	var collisions []*CollisionError
	for _, p := range plugins {
		for _, name := range p.FuncNames() {
			prev, seen := owners[name]
			if !seen && sink.HasCapability(name) {
				prev, seen = BaseOwner, true
			}
			if seen {
				collisions = append(collisions, &CollisionError{Capability: name, Previous: prev, Plugin: p.Name})
			}
			owners[name] = p.Name
		}
	}
	return collisions
}

func warnDuplicateNames[F any](log *logging.Logger, plugins []Descriptor[F]) {
	seen := make(map[string]int, len(plugins))
	for _, p := range plugins {
		seen[p.Name]++
		if p.Name == "" {
			log.Warn("plugin with empty name supplied")
		}
	}
	for _, p := range plugins {
		if n := seen[p.Name]; n > 1 {
			log.WithField("plugin", p.Name).Warn("plugin name supplied %d times", n)
			seen[p.Name] = 0
		}
	}
}
