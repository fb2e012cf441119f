package analysis

import (
	"strings"

	"github.com/san-kum/oscilab/internal/oscillator"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds the (x, v) trajectory of a run.
type PhasePortrait2D struct {
	Points []Point
}

func NewPhasePortrait(samples []oscillator.Snapshot) *PhasePortrait2D {
	portrait := &PhasePortrait2D{Points: make([]Point, 0, len(samples))}
	for _, s := range samples {
		portrait.Points = append(portrait.Points, Point{X: s.Position, Y: s.Velocity})
	}
	return portrait
}

// bounds returns the padded extent of the portrait.
func (p *PhasePortrait2D) bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	padX, padY := (maxX-minX)*0.1, (maxY-minY)*0.1
	if padX == 0 {
		padX = 0.5
	}
	if padY == 0 {
		padY = 0.5
	}
	return minX - padX, maxX + padX, minY - padY, maxY + padY
}

// PhasePortraitToASCII draws the trajectory on a width×height grid with
// velocity on the vertical axis. The starting sample is marked with '●'.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := portrait.bounds()
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, pt := range portrait.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}
	start := portrait.Points[0]
	grid[row(start.Y)][col(start.X)] = '●'

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
