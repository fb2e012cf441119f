// Package metrics holds run metrics observed sample by sample.
package metrics

import "github.com/san-kum/oscilab/internal/sim"

// Standard is the metric set attached to every headless run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewPeakDisplacement(),
		NewMeanEnergy(),
		NewFinite(),
	}
}
