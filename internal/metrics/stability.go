package metrics

import (
	"math"

	"github.com/san-kum/oscilab/internal/oscillator"
)

// Finite is the fraction of samples whose readings are all finite.
// Parameters are never validated, so a zero mass or length shows up here
// as a value below 1.
type Finite struct {
	name       string
	violations int
	samples    int
}

func NewFinite() *Finite {
	return &Finite{name: "finite"}
}

func (f *Finite) Name() string {
	return f.name
}

func (f *Finite) Observe(s oscillator.Snapshot) {
	f.samples++
	for _, val := range []float64{s.Position, s.Velocity, s.Acceleration, s.Total} {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			f.violations++
			break
		}
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *Finite) Reset() {
	f.violations = 0
	f.samples = 0
}
