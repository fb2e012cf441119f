package session

import (
	"errors"
	"math"

	"github.com/san-kum/oscilab/internal/oscillator"
)

// Slider is the adjustable range of one parameter.
type Slider struct {
	Key  string  `json:"key"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Clamp limits v to the slider range and snaps it to the step grid.
func (s Slider) Clamp(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// ErrOutOfRange is returned for values outside a parameter's slider.
var ErrOutOfRange = errors.New("parameter out of range")

// Contains reports whether v lies inside the slider range. NaN never does.
func (s Slider) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

var (
	massSlider    = Slider{Key: oscillator.KeyMass, Min: 0.1, Max: 5, Step: 0.1}
	gravitySlider = Slider{Key: oscillator.KeyGravity, Min: 1, Max: 20, Step: 0.1}
	angleSlider   = Slider{Key: oscillator.KeyInitialAngle, Min: 0.1, Max: 0.5, Step: 0.01}
)

var sliders = map[oscillator.Kind][]Slider{
	oscillator.KindHarmonic: {
		massSlider,
		{Key: oscillator.KeySpringConstant, Min: 1, Max: 50, Step: 1},
		{Key: oscillator.KeyAmplitude, Min: 0.5, Max: 5, Step: 0.1},
		{Key: oscillator.KeyPhase, Min: 0, Max: 6.28, Step: 0.1},
	},
	oscillator.KindSimplePendulum: {
		{Key: oscillator.KeyLength, Min: 0.5, Max: 2.6, Step: 0.1},
		massSlider,
		gravitySlider,
		angleSlider,
	},
	oscillator.KindCompoundPendulum: {
		{Key: oscillator.KeyMomentOfInertia, Min: 0.1, Max: 2, Step: 0.1},
		{Key: oscillator.KeyDistance, Min: 0.1, Max: 1.5, Step: 0.1},
		massSlider,
		gravitySlider,
		angleSlider,
	},
}

// Sliders returns the control ranges for kind in Parameters() order.
func Sliders(kind oscillator.Kind) []Slider {
	s := sliders[kind]
	out := make([]Slider, len(s))
	copy(out, s)
	return out
}

func sliderFor(kind oscillator.Kind, key string) (Slider, bool) {
	for _, s := range sliders[kind] {
		if s.Key == key {
			return s, true
		}
	}
	return Slider{}, false
}
