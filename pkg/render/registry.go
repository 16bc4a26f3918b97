package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnitNotFound is returned when no unit carries the requested name.
	ErrUnitNotFound = errors.New("render: message unit not found")
	// ErrDuplicateUnit is returned when a name is registered twice.
	ErrDuplicateUnit = errors.New("render: message unit already registered")
)

// Registry maps unit names to message units so configuration files can refer
// to them by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	units map[string]MessageUnit
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]MessageUnit)}
}

// Register adds units under their Name(). Names are trimmed and must be
// unique; the first failure stops registration.
func (r *Registry) Register(units ...MessageUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, unit := range units {
		if unit == nil {
			return errors.New("render: message unit is required")
		}
		name := strings.TrimSpace(unit.Name())
		if name == "" {
			return errors.New("render: message unit name is required")
		}
		if _, exists := r.units[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateUnit, name)
		}
		r.units[name] = unit
	}
	return nil
}

// MustRegister is Register for init-time wiring; it panics on failure.
func (r *Registry) MustRegister(units ...MessageUnit) {
	if err := r.Register(units...); err != nil {
		panic(err)
	}
}

// Get looks a unit up by name. Unknown names wrap ErrUnitNotFound.
func (r *Registry) Get(name string) (MessageUnit, error) {
	r.mu.RLock()
	unit, ok := r.units[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnitNotFound, name)
	}
	return unit, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.units))
	for name := range r.units {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
