package oscillator

import (
	"fmt"
	"math"
)

const (
	DefaultLength       = 1.0
	DefaultInitialAngle = 0.3
)

var (
	_ Oscillator = (*SimplePendulum)(nil)
	_ Angular    = (*SimplePendulum)(nil)
)

// swing is the small-angle solution θ(t) = θ₀ cos(ωt) shared by both
// pendulum models.
type swing struct {
	initialAngle float64

	angle               float64
	angularVelocity     float64
	angularAcceleration float64
}

func (s *swing) solve(omega, t float64) {
	s.angle = s.initialAngle * math.Cos(omega*t)
	s.angularVelocity = -s.initialAngle * omega * math.Sin(omega*t)
	s.angularAcceleration = -s.initialAngle * omega * omega * math.Cos(omega*t)
}

func (s *swing) Angle() float64               { return s.angle }
func (s *swing) AngularVelocity() float64     { return s.angularVelocity }
func (s *swing) AngularAcceleration() float64 { return s.angularAcceleration }

// Horizontal projections of a point at distance arm from the pivot.
func (s *swing) position(arm float64) float64 {
	return arm * math.Sin(s.angle)
}

func (s *swing) velocity(arm float64) float64 {
	return arm * s.angularVelocity * math.Cos(s.angle)
}

// acceleration keeps the centripetal cross term of the chain rule.
func (s *swing) acceleration(arm float64) float64 {
	tangential := arm * s.angularAcceleration * math.Cos(s.angle)
	centripetal := -arm * s.angularVelocity * s.angularVelocity * math.Sin(s.angle)
	return tangential + centripetal
}

// height of the point above its lowest position.
func (s *swing) height(arm float64) float64 {
	return arm * (1 - math.Cos(s.angle))
}

// SimplePendulum is a point mass on a massless thread.
type SimplePendulum struct {
	clock
	swing

	length  float64
	mass    float64
	gravity float64
}

// NewSimplePendulum builds a pendulum of length L (m), bob mass m (kg),
// gravity g (m/s²) released from theta0 (rad).
func NewSimplePendulum(L, m, g, theta0 float64) *SimplePendulum {
	p := &SimplePendulum{
		clock:   newClock(),
		swing:   swing{initialAngle: theta0},
		length:  L,
		mass:    m,
		gravity: g,
	}
	p.Reset()
	return p
}

// NewDefaultSimplePendulum uses L=1 m, m=1 kg, g=9.81 m/s², θ₀=0.3 rad.
func NewDefaultSimplePendulum() *SimplePendulum {
	return NewSimplePendulum(DefaultLength, DefaultMass, DefaultGravity, DefaultInitialAngle)
}

func (p *SimplePendulum) Kind() Kind { return KindSimplePendulum }

func (p *SimplePendulum) SetLength(L float64) {
	p.length = L
	p.Reset()
}

func (p *SimplePendulum) SetMass(m float64) {
	p.mass = m
	p.Reset()
}

func (p *SimplePendulum) SetGravity(g float64) {
	p.gravity = g
	p.Reset()
}

func (p *SimplePendulum) SetInitialAngle(theta0 float64) {
	p.initialAngle = theta0
	p.Reset()
}

func (p *SimplePendulum) SetParam(key string, value float64) error {
	switch key {
	case KeyLength:
		p.SetLength(value)
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

func (p *SimplePendulum) AngularFrequency() float64 {
	return math.Sqrt(p.gravity / p.length)
}

func (p *SimplePendulum) Period() float64 { return period(p.AngularFrequency()) }

func (p *SimplePendulum) Position() float64     { return p.position(p.length) }
func (p *SimplePendulum) Velocity() float64     { return p.velocity(p.length) }
func (p *SimplePendulum) Acceleration() float64 { return p.acceleration(p.length) }

func (p *SimplePendulum) KineticEnergy() float64 {
	v := p.length * p.angularVelocity
	return 0.5 * p.mass * v * v
}

func (p *SimplePendulum) PotentialEnergy() float64 {
	return p.mass * p.gravity * p.height(p.length)
}

func (p *SimplePendulum) TotalEnergy() float64 {
	return p.KineticEnergy() + p.PotentialEnergy()
}

func (p *SimplePendulum) Update(dt float64) {
	if !p.advance(dt) {
		return
	}
	p.solve(p.AngularFrequency(), p.time)
}

func (p *SimplePendulum) Reset() {
	p.rewind()
	p.solve(p.AngularFrequency(), p.time)
}

func (p *SimplePendulum) Parameters() Params {
	return Params{
		{Key: KeyLength, Name: "Length (L)", Value: p.length, Unit: "m"},
		{Key: KeyMass, Name: "Mass (m)", Value: p.mass, Unit: "kg"},
		{Key: KeyGravity, Name: "Gravity (g)", Value: p.gravity, Unit: "m/s²"},
		{Key: KeyInitialAngle, Name: "Initial Angle (θ₀)", Value: p.initialAngle, Unit: "rad"},
	}
}

func (p *SimplePendulum) KnownData() Params      { return p.Parameters() }
func (p *SimplePendulum) Unknowns() Params       { return unknowns() }
func (p *SimplePendulum) Calculations() []string { return calculations(p) }

func (p *SimplePendulum) Equations() []string {
	return []string{
		"θ(t) ≈ θ₀ cos(ωt)",
		"ω = √(g/L)",
		"T = 2π√(L/g)",
		"x = L sin(θ)",
		"v = Lω cos(θ)",
		"Ec = ½mv²",
		"Ep = mgh = mgL(1-cos(θ))",
		"Et = Ec + Ep",
	}
}
