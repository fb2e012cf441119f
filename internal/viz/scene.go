package viz

import (
	"math"

	"github.com/san-kum/oscilab/internal/oscillator"
)

const trailLength = 60

type point struct{ x, y int }

// scene draws the active model onto a canvas. The bob trail survives
// between frames and is dropped on reset or system switch.
type scene struct {
	canvas *Canvas
	trail  []point
}

func newScene(w, h int) *scene {
	return &scene{canvas: NewCanvas(w, h), trail: make([]point, 0, trailLength)}
}

func (s *scene) reset() { s.trail = s.trail[:0] }

func (s *scene) remember(p point) {
	s.trail = append(s.trail, p)
	if len(s.trail) > trailLength {
		s.trail = s.trail[1:]
	}
}

// massRadius grows with the mass parameter, in sub-pixels.
func massRadius(o oscillator.Oscillator) int {
	r := 2 + int(math.Round(o.Parameters().Value(oscillator.KeyMass)))
	return min(max(r, 2), 7)
}

// clip keeps far off-canvas coordinates bounded so line drawing stays
// cheap for extreme parameters.
func (s *scene) clip(x, y int) (int, int) {
	cw, ch := s.canvas.PixelSize()
	return min(max(x, -cw), 2*cw), min(max(y, -ch), 2*ch)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// draw renders o by kind. Non-finite states leave only the fixtures.
func (s *scene) draw(o oscillator.Oscillator) {
	s.canvas.Clear()
	switch o.Kind() {
	case oscillator.KindHarmonic:
		s.drawSpring(o)
	case oscillator.KindSimplePendulum:
		s.drawPendulum(o)
	case oscillator.KindCompoundPendulum:
		s.drawCompound(o)
	}
}

func (s *scene) drawSpring(o oscillator.Oscillator) {
	cw, ch := s.canvas.PixelSize()
	cx, cy := cw/2, ch/2

	amp := math.Abs(o.Parameters().Value(oscillator.KeyAmplitude))
	if !finite(amp) || amp == 0 {
		amp = 1
	}
	scale := float64(cw) / (amp*2 + 2)
	wallX := cx - int(amp*scale) - 4

	s.canvas.FillRect(wallX-2, cy, 1, 14)
	s.canvas.DrawDashedLine(cx, cy-16, cx, cy+16, 2)

	x := o.Position()
	if !finite(x) {
		return
	}
	massX, _ := s.clip(cx+int(x*scale), cy)
	half := massRadius(o)
	s.canvas.FillRect(massX, cy, half, half)

	numCoils, prevX, prevY := 12, wallX, cy
	step := float64(massX-half-wallX) / float64(numCoils)
	for i := 1; i <= numCoils; i++ {
		currX, currY := wallX+int(float64(i)*step), cy+5
		if i%2 == 0 {
			currY = cy - 5
		}
		if i == numCoils {
			currY = cy
		}
		s.canvas.DrawLine(prevX, prevY, currX, currY)
		prevX, prevY = currX, currY
	}
}

func (s *scene) pivot() (int, int, float64) {
	cw, ch := s.canvas.PixelSize()
	return cw / 2, 4, float64(ch-12) / 2.6
}

func (s *scene) drawPendulum(o oscillator.Oscillator) {
	px, py, scale := s.pivot()
	s.canvas.FillRect(px, py-1, 8, 0)
	s.canvas.FillDisc(px, py, 1)

	theta, _, _, _ := oscillator.AngularState(o)
	L := o.Parameters().Value(oscillator.KeyLength)
	if !finite(theta, L) {
		return
	}
	bx := px + int(L*scale*math.Sin(theta))
	by := py + int(L*scale*math.Cos(theta))
	bx, by = s.clip(bx, by)

	s.remember(point{bx, by})
	for _, pt := range s.trail {
		s.canvas.Set(pt.x, pt.y)
	}
	s.canvas.DrawLine(px, py, bx, by)
	s.canvas.FillDisc(bx, by, massRadius(o))
}

func (s *scene) drawCompound(o oscillator.Oscillator) {
	px, py, scale := s.pivot()
	s.canvas.FillRect(px, py-1, 8, 0)

	theta, _, _, _ := oscillator.AngularState(o)
	d := o.Parameters().Value(oscillator.KeyDistance)
	if !finite(theta, d) {
		return
	}
	sin, cos := math.Sin(theta), math.Cos(theta)
	barLength := d * scale * 1.5
	ex, ey := px+int(barLength*sin), py+int(barLength*cos)
	mx, my := px+int(d*scale*sin), py+int(d*scale*cos)
	ex, ey = s.clip(ex, ey)
	mx, my = s.clip(mx, my)

	// thick bar: centre line plus one offset on each side, perpendicular
	nx, ny := int(math.Round(cos)), int(math.Round(-sin))
	s.canvas.DrawLine(px, py, ex, ey)
	s.canvas.DrawLine(px+nx, py+ny, ex+nx, ey+ny)
	s.canvas.DrawLine(px-nx, py-ny, ex-nx, ey-ny)

	s.remember(point{mx, my})
	for _, pt := range s.trail {
		s.canvas.Set(pt.x, pt.y)
	}
	s.canvas.FillDisc(px, py, 2)

	r := massRadius(o)
	s.canvas.FillDisc(mx, my, r)
	for i := -r - 2; i <= r+2; i++ {
		s.canvas.Unset(mx+i, my)
		s.canvas.Unset(mx, my+i)
	}
}
