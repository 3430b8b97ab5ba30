// Package flags provides feature flag support.
// Flags are read-only after initialization and unknown flags are disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/registrar/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagAutosave saves the snapshot after every mutating menu command.
	FlagAutosave = "autosave"

	// FlagConfirmDelete asks for confirmation before deleting a student or course in the menu.
	FlagConfirmDelete = "confirm-delete"
)

// known lists every flag registrar reads, with a one-line description.
var known = map[string]string{
	FlagAutosave:      "save after every change made in the interactive menu",
	FlagConfirmDelete: "ask before deleting a student or course in the interactive menu",
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// IsKnown reports whether name is a flag registrar reads.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}

// Known returns the names of all flags registrar reads, sorted.
func Known() []string {
	return slices.Sorted(maps.Keys(known))
}

// Describe returns the description of a known flag, or "".
func Describe(name string) string {
	return known[name]
}
