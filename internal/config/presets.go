package config

import (
	"sort"

	"github.com/san-kum/oscilab/internal/oscillator"
)

var Presets = map[string]map[string]*Config{
	string(oscillator.KindHarmonic): {
		"classroom": {
			System: string(oscillator.KindHarmonic), Dt: 0.016, Duration: 10.0,
			Params: map[string]float64{"mass": 1.0, "spring_constant": 10.0, "amplitude": 2.0, "phase": 0},
		},
		"stiff": {
			System: string(oscillator.KindHarmonic), Dt: 0.005, Duration: 5.0,
			Params: map[string]float64{"mass": 0.5, "spring_constant": 50.0, "amplitude": 1.0, "phase": 0},
		},
		"heavy": {
			System: string(oscillator.KindHarmonic), Dt: 0.016, Duration: 20.0,
			Params: map[string]float64{"mass": 5.0, "spring_constant": 5.0, "amplitude": 3.0, "phase": 0},
		},
		"quarter_phase": {
			System: string(oscillator.KindHarmonic), Dt: 0.016, Duration: 10.0,
			Params: map[string]float64{"mass": 1.0, "spring_constant": 10.0, "amplitude": 2.0, "phase": 1.5708},
		},
	},
	string(oscillator.KindSimplePendulum): {
		"classroom": {
			System: string(oscillator.KindSimplePendulum), Dt: 0.016, Duration: 10.0,
			Params: map[string]float64{"length": 1.0, "mass": 1.0, "gravity": 9.81, "initial_angle": 0.3},
		},
		"seconds": {
			System: string(oscillator.KindSimplePendulum), Dt: 0.016, Duration: 20.0,
			Params: map[string]float64{"length": 0.994, "mass": 1.0, "gravity": 9.81, "initial_angle": 0.1},
		},
		"moon": {
			System: string(oscillator.KindSimplePendulum), Dt: 0.016, Duration: 30.0,
			Params: map[string]float64{"length": 1.0, "mass": 1.0, "gravity": 1.62, "initial_angle": 0.3},
		},
	},
	string(oscillator.KindCompoundPendulum): {
		"classroom": {
			System: string(oscillator.KindCompoundPendulum), Dt: 0.016, Duration: 10.0,
			Params: map[string]float64{"moment_of_inertia": 0.5, "distance": 0.5, "mass": 1.0, "gravity": 9.81, "initial_angle": 0.3},
		},
		// uniform 1 m rod pivoted at one end: I = mL²/3, d = L/2
		"rod": {
			System: string(oscillator.KindCompoundPendulum), Dt: 0.016, Duration: 10.0,
			Params: map[string]float64{"moment_of_inertia": 1.0 / 3.0, "distance": 0.5, "mass": 1.0, "gravity": 9.81, "initial_angle": 0.2},
		},
		"mars": {
			System: string(oscillator.KindCompoundPendulum), Dt: 0.016, Duration: 20.0,
			Params: map[string]float64{"moment_of_inertia": 0.5, "distance": 0.5, "mass": 1.0, "gravity": 3.71, "initial_angle": 0.3},
		},
	},
}

// GetPreset returns a copy of the named preset merged over the defaults,
// or nil when either name is unknown.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	p, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.System = p.System
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Merge(p.Params)
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
