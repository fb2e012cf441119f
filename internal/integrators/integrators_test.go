package integrators

import (
	"math"
	"testing"
)

// unit oscillator x'' = -x
var unitOscillator = SystemFunc(func(x []float64, t float64) []float64 {
	return []float64{x[1], -x[0]}
})

func integrate(integ Integrator, steps int, dt float64) []float64 {
	x := []float64{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(unitOscillator, x, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := integrate(NewRK4(), steps, dt)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSymplecticBoundedEnergy(t *testing.T) {
	for _, name := range []string{"verlet", "leapfrog"} {
		integ, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		x := integrate(integ, 10000, 0.05)
		energy := 0.5 * (x[0]*x[0] + x[1]*x[1])
		if math.Abs(energy-0.5) > 1e-3 {
			t.Errorf("%s: energy drifted to %.6f", name, energy)
		}
	}
}

func TestEulerGainsEnergy(t *testing.T) {
	x := integrate(NewEuler(), 1000, 0.01)
	energy := 0.5 * (x[0]*x[0] + x[1]*x[1])
	if energy <= 0.5 {
		t.Errorf("explicit euler should gain energy on an oscillator, got %.6f", energy)
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("rk45"); err == nil {
		t.Fatal("expected error for unknown integrator")
	}
	if got := Names(); len(got) != 4 || got[0] != "euler" {
		t.Errorf("unexpected names: %v", got)
	}
}
