package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/accretion/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"symplectic": func() dynamo.Integrator { return NewSymplecticEuler() },
	"leapfrog":   func() dynamo.Integrator { return NewLeapfrog() },
	"rk4":        func() dynamo.Integrator { return NewRK4() },
}

// Default is the integrator used when a configuration names none.
const Default = "symplectic"

// Get returns a fresh integrator by name.
func Get(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, List())
	}
	return fn(), nil
}

// List returns the registered integrator names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
