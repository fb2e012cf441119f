package oscillator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscilab/internal/oscillator"
)

type model struct {
	name   string
	build  func() oscillator.Oscillator
	params map[string]float64
}

var models = []model{
	{
		name:  "harmonic",
		build: func() oscillator.Oscillator { return oscillator.NewHarmonic(1, 10, 2, 0) },
		params: map[string]float64{
			oscillator.KeyMass:           2,
			oscillator.KeySpringConstant: 20,
			oscillator.KeyAmplitude:      1.5,
			oscillator.KeyPhase:          0.7,
		},
	},
	{
		name:  "simple pendulum",
		build: func() oscillator.Oscillator { return oscillator.NewSimplePendulum(1, 1, 9.81, 0.3) },
		params: map[string]float64{
			oscillator.KeyLength:       2,
			oscillator.KeyMass:         3,
			oscillator.KeyGravity:      1.62,
			oscillator.KeyInitialAngle: 0.1,
		},
	},
	{
		name:  "compound pendulum",
		build: func() oscillator.Oscillator { return oscillator.NewCompoundPendulum(0.5, 0.5, 1, 9.81, 0.3) },
		params: map[string]float64{
			oscillator.KeyMomentOfInertia: 1.2,
			oscillator.KeyDistance:        0.8,
			oscillator.KeyMass:            2,
			oscillator.KeyGravity:         3.7,
			oscillator.KeyInitialAngle:    0.4,
		},
	},
}

var _ = Describe("Oscillator contract", func() {
	for _, m := range models {
		m := m
		Describe(m.name, func() {
			var o oscillator.Oscillator

			BeforeEach(func() {
				o = m.build()
			})

			It("starts paused at t=0", func() {
				Expect(o.IsPaused()).To(BeTrue())
				Expect(o.Time()).To(Equal(0.0))
				Expect(o.TimeStep()).To(Equal(oscillator.DefaultTimeStep))
			})

			It("reports total energy as the exact sum of kinetic and potential", func() {
				o.Start()
				for i := 0; i < 500; i++ {
					o.Update(0.013)
					Expect(o.TotalEnergy()).To(Equal(o.KineticEnergy() + o.PotentialEnergy()))
				}
			})

			It("keeps period times angular frequency at 2π", func() {
				Expect(o.Period() * o.AngularFrequency()).To(BeNumerically("~", 2*math.Pi, 1e-12))
				for key, value := range m.params {
					Expect(o.SetParam(key, value)).To(Succeed())
					Expect(o.Period() * o.AngularFrequency()).To(BeNumerically("~", 2*math.Pi, 1e-12))
				}
			})

			It("resets idempotently", func() {
				o.Start()
				o.Update(0.37)
				o.Reset()
				first := oscillator.Sample(o)
				o.Reset()
				Expect(oscillator.Sample(o)).To(Equal(first))
				Expect(first.Time).To(Equal(0.0))
			})

			It("rewinds to t=0 on every parameter change and keeps running", func() {
				o.Start()
				for key, value := range m.params {
					o.Update(0.25)
					Expect(o.Time()).To(BeNumerically(">", 0))
					Expect(o.SetParam(key, value)).To(Succeed())
					Expect(o.Time()).To(Equal(0.0))
					Expect(o.IsPaused()).To(BeFalse())
					Expect(o.Parameters().Value(key)).To(Equal(value))
				}
			})

			It("derives a fresh state from the new parameters after a change", func() {
				for key, value := range m.params {
					Expect(o.SetParam(key, value)).To(Succeed())
				}
				fresh := m.build()
				for key, value := range m.params {
					Expect(fresh.SetParam(key, value)).To(Succeed())
				}
				Expect(oscillator.Sample(o)).To(Equal(oscillator.Sample(fresh)))
			})

			It("rejects unknown parameter keys without touching the state", func() {
				o.Start()
				o.Update(0.5)
				before := oscillator.Sample(o)
				err := o.SetParam("viscosity", 1)
				Expect(err).To(MatchError(oscillator.ErrUnknownParam))
				Expect(oscillator.Sample(o)).To(Equal(before))
			})

			It("ignores updates while paused", func() {
				o.Start()
				o.Update(0.2)
				o.Pause()
				before := oscillator.Sample(o)
				o.Update(1.5)
				Expect(oscillator.Sample(o)).To(Equal(before))
			})

			It("treats start and pause as idempotent", func() {
				o.Start()
				o.Start()
				Expect(o.IsPaused()).To(BeFalse())
				o.Pause()
				o.Pause()
				Expect(o.IsPaused()).To(BeTrue())
			})

			It("advances a tenth of the delta in slow motion", func() {
				normal := m.build()
				normal.Start()
				normal.Update(0.5)

				o.SetSlowMotion(true)
				o.Start()
				o.Update(0.5)

				Expect(o.SlowMotion()).To(BeTrue())
				Expect(normal.Time()).To(Equal(0.5))
				Expect(o.Time()).To(Equal(0.1 * 0.5))
			})

			It("does not recompute state when configuration setters run", func() {
				o.Start()
				o.Update(0.3)
				before := oscillator.Sample(o)
				o.SetTimeStep(0.001)
				o.SetSlowMotion(true)
				Expect(oscillator.Sample(o)).To(Equal(before))
				Expect(o.TimeStep()).To(Equal(0.001))
			})

			It("computes the state from elapsed time rather than by stepping", func() {
				o.Start()
				for i := 0; i < 1000; i++ {
					o.Update(0.001)
				}
				direct := m.build()
				direct.Start()
				direct.Update(o.Time())
				Expect(o.Position()).To(BeNumerically("~", direct.Position(), 1e-12))
				Expect(o.Velocity()).To(BeNumerically("~", direct.Velocity(), 1e-12))
			})

			It("exposes known data, unknowns and equations", func() {
				Expect(o.KnownData()).To(Equal(o.Parameters()))

				unknowns := o.Unknowns()
				Expect(unknowns).To(HaveLen(6))
				names := make([]string, len(unknowns))
				for i, q := range unknowns {
					names[i] = q.Name
					Expect(q.Value).To(Equal(0.0))
				}
				Expect(names).To(Equal([]string{
					"Position", "Velocity", "Acceleration",
					"Kinetic Energy", "Potential Energy", "Total Energy",
				}))
				Expect(unknowns[2].Unit).To(Equal("m/s²"))

				eqs := o.Equations()
				Expect(eqs).NotTo(BeEmpty())
				Expect(eqs[len(eqs)-1]).To(Equal("Et = Ec + Ep"))
			})

			It("formats eight calculation lines", func() {
				calcs := o.Calculations()
				Expect(calcs).To(HaveLen(8))
				Expect(calcs[0]).To(HavePrefix("ω = "))
				Expect(calcs[0]).To(HaveSuffix(" rad/s"))
				Expect(calcs[7]).To(HavePrefix("Et = Ec + Ep = "))
			})

			It("never panics on degenerate parameters", func() {
				o.Start()
				Expect(func() {
					for _, key := range o.Parameters().Keys() {
						_ = o.SetParam(key, 0)
						o.Update(0.1)
						_ = o.Calculations()
					}
				}).NotTo(Panic())
			})
		})
	}
})

var _ = Describe("Harmonic", func() {
	It("matches the reference state at t=0", func() {
		h := oscillator.NewHarmonic(1, 10, 2, 0)
		Expect(h.Position()).To(Equal(2.0))
		Expect(h.Velocity()).To(BeNumerically("~", 0, 1e-12))
		Expect(h.Acceleration()).To(BeNumerically("~", -20, 1e-9))
		Expect(h.AngularFrequency()).To(BeNumerically("~", 3.1623, 1e-4))
		Expect(h.Period()).To(BeNumerically("~", 1.9869, 1e-4))
		Expect(h.KineticEnergy()).To(BeNumerically("~", 0, 1e-12))
		Expect(h.PotentialEnergy()).To(BeNumerically("~", 20, 1e-9))
	})

	It("conserves energy exactly along the closed-form path", func() {
		h := oscillator.NewHarmonic(1, 10, 2, 0)
		h.Start()
		for i := 0; i < 200; i++ {
			h.Update(0.05)
			Expect(h.TotalEnergy()).To(BeNumerically("~", 20, 1e-9))
		}
	})

	It("returns to its start after one period", func() {
		h := oscillator.NewHarmonic(1, 10, 2, 0.4)
		x0 := h.Position()
		h.Start()
		h.Update(h.Period())
		Expect(h.Position()).To(BeNumerically("~", x0, 1e-9))
	})

	It("applies the initial phase", func() {
		h := oscillator.NewHarmonic(1, 10, 2, math.Pi/2)
		Expect(h.Position()).To(BeNumerically("~", 0, 1e-12))
		Expect(h.Velocity()).To(BeNumerically("~", -2*math.Sqrt(10), 1e-9))
	})

	It("is not angular", func() {
		_, _, _, ok := oscillator.AngularState(oscillator.NewDefaultHarmonic())
		Expect(ok).To(BeFalse())
	})

	It("propagates NaN for a zero mass", func() {
		h := oscillator.NewHarmonic(0, 0, 2, 0)
		Expect(math.IsNaN(h.AngularFrequency())).To(BeTrue())
	})
})

var _ = Describe("SimplePendulum", func() {
	It("matches the reference state at t=0", func() {
		p := oscillator.NewSimplePendulum(1, 1, 9.81, 0.3)
		Expect(p.Angle()).To(Equal(0.3))
		Expect(p.AngularVelocity()).To(BeNumerically("~", 0, 1e-12))
		Expect(p.Position()).To(BeNumerically("~", 0.2955, 1e-4))
		Expect(p.PotentialEnergy()).To(BeNumerically("~", 9.81*(1-math.Cos(0.3)), 1e-12))
		Expect(p.PotentialEnergy()).To(BeNumerically("~", 0.43815, 1e-5))
		Expect(p.KineticEnergy()).To(BeNumerically("~", 0, 1e-12))
		Expect(p.AngularFrequency()).To(BeNumerically("~", math.Sqrt(9.81), 1e-12))
	})

	It("keeps the centripetal term in the horizontal acceleration", func() {
		p := oscillator.NewSimplePendulum(1, 1, 9.81, 0.3)
		p.Start()
		p.Update(0.2)
		theta, omega, alpha, ok := oscillator.AngularState(p)
		Expect(ok).To(BeTrue())
		want := alpha*math.Cos(theta) - omega*omega*math.Sin(theta)
		Expect(p.Acceleration()).To(BeNumerically("~", want, 1e-12))
	})

	It("passes through the vertical a quarter period in", func() {
		p := oscillator.NewSimplePendulum(1, 1, 9.81, 0.3)
		p.Start()
		p.Update(p.Period() / 4)
		Expect(p.Angle()).To(BeNumerically("~", 0, 1e-9))
		Expect(p.PotentialEnergy()).To(BeNumerically("~", 0, 1e-9))
		Expect(p.KineticEnergy()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("CompoundPendulum", func() {
	It("uses the torque balance for ω", func() {
		p := oscillator.NewCompoundPendulum(0.5, 0.5, 1, 9.81, 0.3)
		Expect(p.AngularFrequency()).To(BeNumerically("~", 3.1321, 1e-4))
	})

	It("projects through the centre of mass", func() {
		p := oscillator.NewCompoundPendulum(0.5, 0.5, 1, 9.81, 0.3)
		Expect(p.Position()).To(BeNumerically("~", 0.5*math.Sin(0.3), 1e-12))
		Expect(p.PotentialEnergy()).To(BeNumerically("~", 9.81*0.5*(1-math.Cos(0.3)), 1e-12))
	})

	It("stores rotational kinetic energy", func() {
		p := oscillator.NewCompoundPendulum(0.5, 0.5, 1, 9.81, 0.3)
		p.Start()
		p.Update(0.1)
		Expect(p.KineticEnergy()).To(BeNumerically("~", 0.5*0.5*p.AngularVelocity()*p.AngularVelocity(), 1e-12))
	})
})
