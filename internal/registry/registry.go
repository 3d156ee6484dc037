// Package registry holds the static table of collectible metrics.
//
// A Registry is built once at startup and never mutated afterwards, so it is
// safe to share between goroutines without locking.
package registry

import (
	"fmt"
	"io"
)

// UpdateFunc refreshes the stored value of one metric.
type UpdateFunc func()

// Descriptor pairs a metric name with its update callback.
type Descriptor struct {
	Name   string
	Update UpdateFunc
}

// Registry is an immutable name -> callback table.
type Registry struct {
	byName map[string]UpdateFunc
	names  []string
}

// New builds a Registry from descriptors, keeping their order for listing.
// It fails on empty or duplicated names.
func New(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]UpdateFunc, len(descriptors)),
		names:  make([]string, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("metric descriptor without name")
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("metric %q registered twice", d.Name)
		}
		r.byName[d.Name] = d.Update
		r.names = append(r.names, d.Name)
	}
	return r, nil
}

// Lookup returns the callback registered under name. The match is exact and case-sensitive.
func (r *Registry) Lookup(name string) (UpdateFunc, bool) {
	update, ok := r.byName[name]
	return update, ok
}

// Names returns registered metric names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	return len(r.names)
}

// Show prints the available metrics, one per line.
func (r *Registry) Show(w io.Writer) {
	fmt.Fprintln(w, "Available metrics:")
	for _, name := range r.names {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}
