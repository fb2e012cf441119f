// Package integrators steps first-order ODE systems numerically. It is used
// to integrate the full nonlinear equations of motion as a reference for the
// closed-form models.
package integrators

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownIntegrator = errors.New("unknown integrator")

// System is a first-order ODE x' = f(x, t). Second-order systems lay the
// state out as positions followed by velocities.
type System interface {
	Derive(x []float64, t float64) []float64
}

type SystemFunc func(x []float64, t float64) []float64

func (f SystemFunc) Derive(x []float64, t float64) []float64 { return f(x, t) }

type Integrator interface {
	Step(sys System, x []float64, t, dt float64) []float64
}

var constructors = map[string]func() Integrator{
	"euler":    func() Integrator { return NewEuler() },
	"rk4":      func() Integrator { return NewRK4() },
	"verlet":   func() Integrator { return NewVerlet() },
	"leapfrog": func() Integrator { return NewLeapfrog() },
}

// New returns a fresh integrator by name.
func New(name string) (Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
