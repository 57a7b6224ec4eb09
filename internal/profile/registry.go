package profile

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a profile name does not resolve.
var ErrNotFound = errors.New("profile not found")

// Registry maps profile names to compiled profiles. It is built once at
// startup and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry returns a registry seeded with the built-in profiles plus any
// extras. An extra with a built-in's name overrides it.
func NewRegistry(extra ...*Profile) *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}
	for _, p := range builtins() {
		r.profiles[p.Name] = p
	}
	for _, p := range extra {
		if p != nil && p.Name != "" {
			r.profiles[p.Name] = p
		}
	}
	return r
}

// Get resolves a profile by name.
func (r *Registry) Get(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Names returns all registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}
