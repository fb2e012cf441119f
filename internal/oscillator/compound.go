package oscillator

import (
	"fmt"
	"math"
)

const (
	DefaultMomentOfInertia = 0.5
	DefaultDistance        = 0.5
)

var (
	_ Oscillator = (*CompoundPendulum)(nil)
	_ Angular    = (*CompoundPendulum)(nil)
)

// CompoundPendulum is a rigid body swinging about a fixed pivot. Linear
// readings are those of its centre of mass.
type CompoundPendulum struct {
	clock
	swing

	momentOfInertia float64
	distance        float64
	mass            float64
	gravity         float64
}

// NewCompoundPendulum builds a physical pendulum with moment of inertia I
// (kg·m²) about the pivot, pivot-to-centre-of-mass distance d (m), mass m
// (kg), gravity g (m/s²), released from theta0 (rad).
func NewCompoundPendulum(I, d, m, g, theta0 float64) *CompoundPendulum {
	p := &CompoundPendulum{
		clock:           newClock(),
		swing:           swing{initialAngle: theta0},
		momentOfInertia: I,
		distance:        d,
		mass:            m,
		gravity:         g,
	}
	p.Reset()
	return p
}

// NewDefaultCompoundPendulum uses I=0.5 kg·m², d=0.5 m, m=1 kg,
// g=9.81 m/s², θ₀=0.3 rad.
func NewDefaultCompoundPendulum() *CompoundPendulum {
	return NewCompoundPendulum(DefaultMomentOfInertia, DefaultDistance, DefaultMass, DefaultGravity, DefaultInitialAngle)
}

func (p *CompoundPendulum) Kind() Kind { return KindCompoundPendulum }

func (p *CompoundPendulum) SetMomentOfInertia(I float64) {
	p.momentOfInertia = I
	p.Reset()
}

func (p *CompoundPendulum) SetDistance(d float64) {
	p.distance = d
	p.Reset()
}

func (p *CompoundPendulum) SetMass(m float64) {
	p.mass = m
	p.Reset()
}

func (p *CompoundPendulum) SetGravity(g float64) {
	p.gravity = g
	p.Reset()
}

func (p *CompoundPendulum) SetInitialAngle(theta0 float64) {
	p.initialAngle = theta0
	p.Reset()
}

func (p *CompoundPendulum) SetParam(key string, value float64) error {
	switch key {
	case KeyMomentOfInertia:
		p.SetMomentOfInertia(value)
	case KeyDistance:
		p.SetDistance(value)
	case KeyMass:
		p.SetMass(value)
	case KeyGravity:
		p.SetGravity(value)
	case KeyInitialAngle:
		p.SetInitialAngle(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return nil
}

// AngularFrequency follows from the torque balance I θ'' = -m g d θ.
func (p *CompoundPendulum) AngularFrequency() float64 {
	return math.Sqrt(p.mass * p.gravity * p.distance / p.momentOfInertia)
}

func (p *CompoundPendulum) Period() float64 { return period(p.AngularFrequency()) }

func (p *CompoundPendulum) Position() float64     { return p.position(p.distance) }
func (p *CompoundPendulum) Velocity() float64     { return p.velocity(p.distance) }
func (p *CompoundPendulum) Acceleration() float64 { return p.acceleration(p.distance) }

// KineticEnergy is purely rotational about the pivot.
func (p *CompoundPendulum) KineticEnergy() float64 {
	return 0.5 * p.momentOfInertia * p.angularVelocity * p.angularVelocity
}

func (p *CompoundPendulum) PotentialEnergy() float64 {
	return p.mass * p.gravity * p.height(p.distance)
}

func (p *CompoundPendulum) TotalEnergy() float64 {
	return p.KineticEnergy() + p.PotentialEnergy()
}

func (p *CompoundPendulum) Update(dt float64) {
	if !p.advance(dt) {
		return
	}
	p.solve(p.AngularFrequency(), p.time)
}

func (p *CompoundPendulum) Reset() {
	p.rewind()
	p.solve(p.AngularFrequency(), p.time)
}

func (p *CompoundPendulum) Parameters() Params {
	return Params{
		{Key: KeyMomentOfInertia, Name: "Moment of Inertia (I)", Value: p.momentOfInertia, Unit: "kg·m²"},
		{Key: KeyDistance, Name: "Distance to Center of Mass (d)", Value: p.distance, Unit: "m"},
		{Key: KeyMass, Name: "Mass (m)", Value: p.mass, Unit: "kg"},
		{Key: KeyGravity, Name: "Gravity (g)", Value: p.gravity, Unit: "m/s²"},
		{Key: KeyInitialAngle, Name: "Initial Angle (θ₀)", Value: p.initialAngle, Unit: "rad"},
	}
}

func (p *CompoundPendulum) KnownData() Params      { return p.Parameters() }
func (p *CompoundPendulum) Unknowns() Params       { return unknowns() }
func (p *CompoundPendulum) Calculations() []string { return calculations(p) }

func (p *CompoundPendulum) Equations() []string {
	return []string{
		"θ(t) ≈ θ₀ cos(ωt)",
		"ω = √(mgd / I)",
		"T = 2π√(I / mgd)",
		"Ec = ½Iω²",
		"Ep = mgd(1-cos(θ))",
		"Et = Ec + Ep",
	}
}
