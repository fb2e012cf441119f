package oscillator

import (
	"fmt"
	"math"
)

const (
	DefaultMass           = 1.0
	DefaultSpringConstant = 10.0
	DefaultAmplitude      = 2.0
)

var _ Oscillator = (*Harmonic)(nil)

// Harmonic is a mass on an ideal spring.
type Harmonic struct {
	clock

	mass           float64
	springConstant float64
	amplitude      float64
	phase          float64

	position     float64
	velocity     float64
	acceleration float64
}

// NewHarmonic builds a mass-spring oscillator with mass m (kg), spring
// constant k (N/m), amplitude A (m) and initial phase phi (rad).
func NewHarmonic(m, k, A, phi float64) *Harmonic {
	h := &Harmonic{
		clock:          newClock(),
		mass:           m,
		springConstant: k,
		amplitude:      A,
		phase:          phi,
	}
	h.Reset()
	return h
}

// NewDefaultHarmonic uses m=1 kg, k=10 N/m, A=2 m, φ=0.
func NewDefaultHarmonic() *Harmonic {
	return NewHarmonic(DefaultMass, DefaultSpringConstant, DefaultAmplitude, 0)
}

func (h *Harmonic) Kind() Kind { return KindHarmonic }

func (h *Harmonic) SetMass(m float64) {
	h.mass = m
	h.Reset()
}

func (h *Harmonic) SetSpringConstant(k float64) {
	h.springConstant = k
	h.Reset()
}

func (h *Harmonic) SetAmplitude(A float64) {
	h.amplitude = A
	h.Reset()
}

func (h *Harmonic) SetPhase(phi float64) {
	h.phase = phi
	h.Reset()
}

func (h *Harmonic) SetParam(key string, value float64) error {
	switch key {
	case KeyMass:
		h.SetMass(value)
	case KeySpringConstant:
		h.SetSpringConstant(value)
	case KeyAmplitude:
		h.SetAmplitude(value)
	case KeyPhase:
		h.SetPhase(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return nil
}

func (h *Harmonic) AngularFrequency() float64 {
	return math.Sqrt(h.springConstant / h.mass)
}

func (h *Harmonic) Period() float64 { return period(h.AngularFrequency()) }

func (h *Harmonic) Position() float64     { return h.position }
func (h *Harmonic) Velocity() float64     { return h.velocity }
func (h *Harmonic) Acceleration() float64 { return h.acceleration }

func (h *Harmonic) KineticEnergy() float64 {
	return 0.5 * h.mass * h.velocity * h.velocity
}

func (h *Harmonic) PotentialEnergy() float64 {
	return 0.5 * h.springConstant * h.position * h.position
}

func (h *Harmonic) TotalEnergy() float64 {
	return h.KineticEnergy() + h.PotentialEnergy()
}

func (h *Harmonic) Update(dt float64) {
	if !h.advance(dt) {
		return
	}
	h.solve()
}

func (h *Harmonic) Reset() {
	h.rewind()
	h.solve()
}

func (h *Harmonic) solve() {
	omega := h.AngularFrequency()
	arg := omega*h.time + h.phase

	h.position = h.amplitude * math.Cos(arg)
	h.velocity = -h.amplitude * omega * math.Sin(arg)
	h.acceleration = -omega * omega * h.position
}

func (h *Harmonic) Parameters() Params {
	return Params{
		{Key: KeyMass, Name: "Mass (m)", Value: h.mass, Unit: "kg"},
		{Key: KeySpringConstant, Name: "Spring Constant (k)", Value: h.springConstant, Unit: "N/m"},
		{Key: KeyAmplitude, Name: "Amplitude (A)", Value: h.amplitude, Unit: "m"},
		{Key: KeyPhase, Name: "Initial Phase (φ)", Value: h.phase, Unit: "rad"},
	}
}

func (h *Harmonic) KnownData() Params      { return h.Parameters() }
func (h *Harmonic) Unknowns() Params       { return unknowns() }
func (h *Harmonic) Calculations() []string { return calculations(h) }

func (h *Harmonic) Equations() []string {
	return []string{
		"x(t) = A cos(ωt + φ)",
		"ω = √(k/m)",
		"v(t) = -Aω sin(ωt + φ)",
		"a(t) = -ω²x",
		"T = 2π/ω",
		"Ec = ½mv²",
		"Ep = ½kx²",
		"Et = Ec + Ep",
	}
}
