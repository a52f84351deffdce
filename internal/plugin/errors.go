package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Plugin system errors.
var (
	// ErrDependencyNotFound is returned when a required plugin is not supplied.
	ErrDependencyNotFound = errors.New("plugin dependency not found")

	// ErrCapabilityConflict is returned in strict mode when two owners
	// contribute the same capability name.
	ErrCapabilityConflict = errors.New("plugin capability conflict")

	// ErrNilSink is returned when Install is given no sink.
	ErrNilSink = errors.New("plugin: capability sink is nil")
)

// DependencyError records one unmet requirement.
type DependencyError struct {
	// Consumer is the plugin declaring the requirement.
	Consumer string
	// Missing is the required plugin name that was not supplied.
	Missing string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("plugin %q requires %q: %v", e.Consumer, e.Missing, ErrDependencyNotFound)
}

func (e *DependencyError) Unwrap() error {
	return ErrDependencyNotFound
}

// CollisionError records a capability name contributed twice.
type CollisionError struct {
	Capability string
	// Previous is the earlier owner, or BaseOwner for a capability the sink
	// already had.
	Previous string
	Plugin   string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("capability %q from plugin %q collides with %q: %v",
		e.Capability, e.Plugin, e.Previous, ErrCapabilityConflict)
}

func (e *CollisionError) Unwrap() error {
	return ErrCapabilityConflict
}

// InstallError is returned when Install refuses a plugin set.
// Nothing was written to the sink.
type InstallError struct {
	// Dependencies lists unmet requirements in descriptor order.
	Dependencies []*DependencyError
	// Collisions is only populated in strict mode.
	Collisions []*CollisionError

	known []string
	edges []Edge
}

func (e *InstallError) Error() string {
	var parts []string
	if n := len(e.Dependencies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unmet %s", n, plural(n, "dependency", "dependencies")))
	}
	if n := len(e.Collisions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d capability %s", n, plural(n, "collision", "collisions")))
	}
	msgs := make([]string, 0, len(e.Dependencies)+len(e.Collisions))
	for _, d := range e.Dependencies {
		msgs = append(msgs, d.Error())
	}
	for _, c := range e.Collisions {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("plugin install refused (%s): %s", strings.Join(parts, ", "), strings.Join(msgs, "; "))
}

// Unwrap exposes every individual error to errors.Is and errors.As.
func (e *InstallError) Unwrap() []error {
	errs := make([]error, 0, len(e.Dependencies)+len(e.Collisions))
	for _, d := range e.Dependencies {
		errs = append(errs, d)
	}
	for _, c := range e.Collisions {
		errs = append(errs, c)
	}
	return errs
}

// Known returns the plugin names that were supplied.
func (e *InstallError) Known() []string {
	out := make([]string, len(e.known))
	copy(out, e.known)
	return out
}

// Report renders a multi-line diagnostic: one paragraph per unmet
// requirement followed by the supplied plugins and declared dependencies.
func (e *InstallError) Report() string {
	var b strings.Builder
	found := strings.Join(e.known, ",")
	deps := make([]string, 0, len(e.edges))
	for _, edge := range e.edges {
		deps = append(deps, edge.Consumer+"->"+edge.Required)
	}

	for i, d := range e.Dependencies {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Plugin %s is asking for %s, but %s is not found here.\n", d.Consumer, d.Missing, d.Missing)
		fmt.Fprintf(&b, "List of found plugins:\n%s.\n", found)
		fmt.Fprintf(&b, "List of dependencies:\n%s.", strings.Join(deps, ","))
	}
	for _, c := range e.Collisions {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Plugin %s redefines %s, already provided by %s.", c.Plugin, c.Capability, c.Previous)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
