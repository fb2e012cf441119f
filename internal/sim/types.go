package sim

import (
	"errors"

	"github.com/san-kum/oscilab/internal/oscillator"
)

var ErrInvalidConfig = errors.New("invalid run config")

// Metric accumulates a scalar over every sample of a run.
type Metric interface {
	Name() string
	Observe(s oscillator.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s oscillator.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s oscillator.Snapshot)

func (f ObserverFunc) OnSample(s oscillator.Snapshot) { f(s) }

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	System  oscillator.Kind
	Samples []oscillator.Snapshot
	Metrics map[string]float64
	Steps   int
}

// Final is the last recorded sample.
func (r *Result) Final() oscillator.Snapshot {
	if len(r.Samples) == 0 {
		return oscillator.Snapshot{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Column extracts one quantity across all samples.
func (r *Result) Column(get func(oscillator.Snapshot) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = get(s)
	}
	return out
}
