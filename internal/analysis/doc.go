// Package analysis measures recorded oscillator traces.
//
//   - [FFT] and [PowerSpectrum]: radix-2 spectrum of a sampled signal
//   - [DominantFrequency]: strongest non-DC component in rad/s
//   - [EstimatePeriod]: period from upward zero crossings
//   - [NewPhasePortrait]: position/velocity trajectory with an ASCII view
//
// Measured values are meant to be compared against the closed-form
// AngularFrequency and Period of the model that produced the trace:
//
//	T := analysis.EstimatePeriod(times, xs)
//	fmt.Printf("measured %.4f s, theory %.4f s\n", T, o.Period())
package analysis
