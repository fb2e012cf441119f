package oscillator

import (
	"fmt"
	"math"
)

const (
	// SlowMotionFactor scales the tick delta while slow motion is enabled.
	SlowMotionFactor = 0.1

	// DefaultTimeStep is the nominal step hint (~60 FPS).
	DefaultTimeStep = 0.016

	// DefaultGravity is standard gravity in m/s².
	DefaultGravity = 9.81
)

// Kind tags the concrete model behind an Oscillator.
type Kind string

const (
	KindHarmonic         Kind = "harmonic"
	KindSimplePendulum   Kind = "simple_pendulum"
	KindCompoundPendulum Kind = "compound_pendulum"
)

func (k Kind) String() string { return string(k) }

// Title is the human readable name of the system.
func (k Kind) Title() string {
	switch k {
	case KindHarmonic:
		return "Simple Harmonic Motion"
	case KindSimplePendulum:
		return "Simple Pendulum"
	case KindCompoundPendulum:
		return "Compound Pendulum"
	}
	return string(k)
}

// Parameter keys accepted by SetParam.
const (
	KeyMass            = "mass"
	KeySpringConstant  = "spring_constant"
	KeyAmplitude       = "amplitude"
	KeyPhase           = "phase"
	KeyLength          = "length"
	KeyGravity         = "gravity"
	KeyInitialAngle    = "initial_angle"
	KeyMomentOfInertia = "moment_of_inertia"
	KeyDistance        = "distance"
)

// Quantity is a named physical value with its unit.
type Quantity struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Params is an ordered table of quantities. Order is presentation order.
type Params []Quantity

// Get looks up a quantity by key or display name.
func (p Params) Get(key string) (Quantity, bool) {
	for _, q := range p {
		if q.Key == key || q.Name == key {
			return q, true
		}
	}
	return Quantity{}, false
}

// Value returns the value for key, or 0 when absent.
func (p Params) Value(key string) float64 {
	q, _ := p.Get(key)
	return q.Value
}

// Map returns the values keyed by parameter key.
func (p Params) Map() map[string]float64 {
	out := make(map[string]float64, len(p))
	for _, q := range p {
		out[q.Key] = q.Value
	}
	return out
}

// Keys returns the machine keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, q := range p {
		keys[i] = q.Key
	}
	return keys
}

// Oscillator is the capability set shared by every model.
type Oscillator interface {
	Kind() Kind

	Position() float64
	Velocity() float64
	Acceleration() float64
	AngularFrequency() float64
	Period() float64

	KineticEnergy() float64
	PotentialEnergy() float64
	TotalEnergy() float64

	// Update advances time by dt (scaled in slow motion) and recomputes
	// the state from the new time. It does nothing while paused.
	Update(dt float64)
	// Reset sets time to zero and recomputes the state at t = 0.
	Reset()

	Start()
	Pause()
	IsPaused() bool
	Time() float64
	TimeStep() float64
	SetTimeStep(step float64)
	SlowMotion() bool
	SetSlowMotion(enabled bool)

	Parameters() Params
	KnownData() Params
	Unknowns() Params
	Equations() []string
	Calculations() []string

	// SetParam sets one physical parameter and resets the model.
	SetParam(key string, value float64) error
}

// Angular is implemented by models whose motion is a rotation.
type Angular interface {
	Angle() float64
	AngularVelocity() float64
	AngularAcceleration() float64
}

// AngularState returns θ, θ' and θ'' when o is a rotating model.
func AngularState(o Oscillator) (theta, omega, alpha float64, ok bool) {
	a, ok := o.(Angular)
	if !ok {
		return 0, 0, 0, false
	}
	return a.Angle(), a.AngularVelocity(), a.AngularAcceleration(), true
}

// Snapshot is the instantaneous reading of a model.
type Snapshot struct {
	Time         float64 `json:"t"`
	Position     float64 `json:"x"`
	Velocity     float64 `json:"v"`
	Acceleration float64 `json:"a"`
	Kinetic      float64 `json:"ec"`
	Potential    float64 `json:"ep"`
	Total        float64 `json:"et"`
	Angle        float64 `json:"theta"`
}

// Sample reads every chart quantity from o.
func Sample(o Oscillator) Snapshot {
	theta, _, _, _ := AngularState(o)
	return Snapshot{
		Time:         o.Time(),
		Position:     o.Position(),
		Velocity:     o.Velocity(),
		Acceleration: o.Acceleration(),
		Kinetic:      o.KineticEnergy(),
		Potential:    o.PotentialEnergy(),
		Total:        o.TotalEnergy(),
		Angle:        theta,
	}
}

// clock holds the run-state bookkeeping common to all models.
type clock struct {
	time       float64
	running    bool
	slowMotion bool
	timeStep   float64
}

func newClock() clock {
	return clock{timeStep: DefaultTimeStep}
}

func (c *clock) Time() float64              { return c.time }
func (c *clock) Start()                     { c.running = true }
func (c *clock) Pause()                     { c.running = false }
func (c *clock) IsPaused() bool             { return !c.running }
func (c *clock) TimeStep() float64          { return c.timeStep }
func (c *clock) SetTimeStep(step float64)   { c.timeStep = step }
func (c *clock) SlowMotion() bool           { return c.slowMotion }
func (c *clock) SetSlowMotion(enabled bool) { c.slowMotion = enabled }

// advance moves time forward and reports whether it did.
func (c *clock) advance(dt float64) bool {
	if !c.running {
		return false
	}
	if c.slowMotion {
		dt *= SlowMotionFactor
	}
	c.time += dt
	return true
}

func (c *clock) rewind() { c.time = 0 }

func unknowns() Params {
	return Params{
		{Key: "position", Name: "Position", Unit: "m"},
		{Key: "velocity", Name: "Velocity", Unit: "m/s"},
		{Key: "acceleration", Name: "Acceleration", Unit: "m/s²"},
		{Key: "kinetic_energy", Name: "Kinetic Energy", Unit: "J"},
		{Key: "potential_energy", Name: "Potential Energy", Unit: "J"},
		{Key: "total_energy", Name: "Total Energy", Unit: "J"},
	}
}

func calculations(o Oscillator) []string {
	return []string{
		fmt.Sprintf("ω = %.4f rad/s", o.AngularFrequency()),
		fmt.Sprintf("T = 2π/ω = %.4f s", o.Period()),
		fmt.Sprintf("x(t) = %.4f m", o.Position()),
		fmt.Sprintf("v(t) = %.4f m/s", o.Velocity()),
		fmt.Sprintf("a(t) = %.4f m/s²", o.Acceleration()),
		fmt.Sprintf("Ec = %.4f J", o.KineticEnergy()),
		fmt.Sprintf("Ep = %.4f J", o.PotentialEnergy()),
		fmt.Sprintf("Et = Ec + Ep = %.4f J", o.TotalEnergy()),
	}
}

func period(omega float64) float64 {
	return 2 * math.Pi / omega
}
