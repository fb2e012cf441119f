// Package reference integrates the full equation of motion of a system
// numerically and measures how far the closed-form solution strays from it.
// For the pendulums this is the small-angle error of θ(t) = θ₀ cos(ωt); for
// the harmonic oscillator both sides solve the same equation and the
// difference is pure integrator error.
package reference

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/oscilab/internal/analysis"
	"github.com/san-kum/oscilab/internal/integrators"
	"github.com/san-kum/oscilab/internal/oscillator"
)

// Comparison summarises one closed-form versus numerical run. Coordinate
// is x for the harmonic oscillator and θ for the pendulums.
type Comparison struct {
	System        oscillator.Kind `json:"system"`
	Integrator    string          `json:"integrator"`
	Steps         int             `json:"steps"`
	MaxError      float64         `json:"max_error"`
	FinalError    float64         `json:"final_error"`
	ClosedPeriod  float64         `json:"closed_period"`
	NumericPeriod float64         `json:"numeric_period"`
	EnergyDrift   float64         `json:"energy_drift"`
}

// Equation returns the nonlinear first-order system for o, its initial
// state [q, q'] and the specific energy function used for drift checks.
func Equation(o oscillator.Oscillator) (integrators.System, []float64, func([]float64) float64) {
	w2 := o.AngularFrequency() * o.AngularFrequency()
	p := o.Parameters()

	if o.Kind() == oscillator.KindHarmonic {
		a, phi := p.Value(oscillator.KeyAmplitude), p.Value(oscillator.KeyPhase)
		sys := integrators.SystemFunc(func(x []float64, t float64) []float64 {
			return []float64{x[1], -w2 * x[0]}
		})
		energy := func(x []float64) float64 { return 0.5*x[1]*x[1] + 0.5*w2*x[0]*x[0] }
		return sys, []float64{a * math.Cos(phi), -a * math.Sqrt(w2) * math.Sin(phi)}, energy
	}

	sys := integrators.SystemFunc(func(x []float64, t float64) []float64 {
		return []float64{x[1], -w2 * math.Sin(x[0])}
	})
	energy := func(x []float64) float64 { return 0.5*x[1]*x[1] + w2*(1-math.Cos(x[0])) }
	return sys, []float64{p.Value(oscillator.KeyInitialAngle), 0}, energy
}

func coordinate(o oscillator.Oscillator) float64 {
	if theta, _, _, ok := oscillator.AngularState(o); ok {
		return theta
	}
	return o.Position()
}

// clone builds a fresh model of the same kind and parameters, so the
// caller's model is never advanced.
func clone(o oscillator.Oscillator) (oscillator.Oscillator, error) {
	c, err := oscillator.New(o.Kind())
	if err != nil {
		return nil, err
	}
	for _, q := range o.Parameters() {
		if err := c.SetParam(q.Key, q.Value); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Compare steps a copy of o and the numerical solution side by side for
// duration seconds.
func Compare(ctx context.Context, o oscillator.Oscillator, integratorName string, dt, duration float64) (*Comparison, error) {
	if dt <= 0 || duration <= 0 {
		return nil, fmt.Errorf("dt and duration must be positive, got dt=%g duration=%g", dt, duration)
	}
	integ, err := integrators.New(integratorName)
	if err != nil {
		return nil, err
	}
	closed, err := clone(o)
	if err != nil {
		return nil, err
	}

	sys, x, energy := Equation(closed)
	e0 := energy(x)
	steps := int(duration/dt + 1e-9)

	cmp := &Comparison{
		System:       closed.Kind(),
		Integrator:   integratorName,
		Steps:        steps,
		ClosedPeriod: closed.Period(),
	}

	times := make([]float64, 0, steps+1)
	numeric := make([]float64, 0, steps+1)
	times = append(times, 0)
	numeric = append(numeric, x[0])

	closed.Start()
	for i := 0; i < steps; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t := float64(i) * dt
		x = integ.Step(sys, x, t, dt)
		closed.Update(dt)

		diff := math.Abs(coordinate(closed) - x[0])
		if diff > cmp.MaxError || math.IsNaN(diff) {
			cmp.MaxError = diff
		}
		cmp.FinalError = diff
		if e0 != 0 {
			if drift := math.Abs(energy(x)-e0) / math.Abs(e0); drift > cmp.EnergyDrift {
				cmp.EnergyDrift = drift
			}
		}

		times = append(times, t+dt)
		numeric = append(numeric, x[0])
	}

	cmp.NumericPeriod = analysis.EstimatePeriod(times, numeric)
	return cmp, nil
}
