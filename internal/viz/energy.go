package viz

import (
	"github.com/charmbracelet/harmonica"
)

// energyBars eases the kinetic and potential shares of the total energy
// so the bars glide instead of jumping each frame.
type energyBars struct {
	spring harmonica.Spring
	pos    [2]float64
	vel    [2]float64
}

func newEnergyBars(fps int) energyBars {
	return energyBars{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

// update moves the bars toward the current shares and returns them.
func (e *energyBars) update(kinetic, potential float64) (float64, float64) {
	targets := [2]float64{0, 0}
	if total := kinetic + potential; total > 0 && finite(kinetic, potential) {
		targets = [2]float64{kinetic / total, potential / total}
	}
	for i, target := range targets {
		e.pos[i], e.vel[i] = e.spring.Update(e.pos[i], e.vel[i], target)
	}
	return e.pos[0], e.pos[1]
}

func (e *energyBars) reset() {
	e.pos = [2]float64{}
	e.vel = [2]float64{}
}
