// Package dispatch resolves requested metric names into update callbacks.
package dispatch

import (
	"fmt"

	internalerrors "github.com/Schera-ole/monitor/internal/errors"
	"github.com/Schera-ole/monitor/internal/registry"
)

// Entry is one resolved slot of a dispatch table.
type Entry struct {
	Name   string
	Update registry.UpdateFunc
}

// Table is the ordered list of callbacks the monitoring loop invokes each cycle.
// Entry i corresponds to the i-th requested name.
type Table []Entry

// Names returns the metric names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.Name
	}
	return names
}

// UnresolvedError reports the first requested name missing from the registry.
type UnresolvedError struct {
	Name string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("no update function found for metric '%s'", e.Name)
}

func (e *UnresolvedError) Unwrap() error {
	return internalerrors.ErrMetricNotFound
}

// Lookup is the part of the registry the dispatcher needs.
type Lookup interface {
	Lookup(name string) (registry.UpdateFunc, bool)
}

// Resolve maps every requested name to its registered callback, preserving
// order and duplicates. The first unknown name fails the whole selection and
// no table is returned. An empty selection yields an empty table.
func Resolve(names []string, reg Lookup) (Table, error) {
	table := make(Table, 0, len(names))
	for _, name := range names {
		update, ok := reg.Lookup(name)
		if !ok {
			return nil, &UnresolvedError{Name: name}
		}
		table = append(table, Entry{Name: name, Update: update})
	}
	return table, nil
}
