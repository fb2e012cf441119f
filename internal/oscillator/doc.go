// Package oscillator provides closed-form models of classical oscillators.
//
// Every model implements [Oscillator] and recomputes its state analytically
// from elapsed time on each [Oscillator.Update], so no error accumulates
// across ticks:
//
//   - [Harmonic]: mass-spring system, x(t) = A cos(ωt + φ)
//   - [SimplePendulum]: point mass on a thread, small-angle approximation
//   - [CompoundPendulum]: rigid body swinging about a pivot
//
// The pendulum models also implement [Angular].
//
// # Parameters
//
// Changing any physical parameter resets the model to t = 0:
//
//	o := oscillator.NewHarmonic(1, 10, 2, 0)
//	o.Start()
//	o.Update(0.5)
//	_ = o.SetParam(oscillator.KeyMass, 2) // o.Time() == 0 again
//
// Parameters are not validated. Zero or negative masses, lengths or
// inertias yield NaN or Inf through the angular frequency; constraining
// input ranges is left to the caller.
//
// # Thread Safety
//
// Models are NOT safe for concurrent use.
package oscillator
