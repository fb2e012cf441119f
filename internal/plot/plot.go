// Package plot renders recorded traces as PNG charts.
package plot

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/series"
)

type Chart string

const (
	ChartPosition     Chart = "position"
	ChartVelocity     Chart = "velocity"
	ChartAcceleration Chart = "acceleration"
	ChartEnergy       Chart = "energy"
)

func Charts() []Chart {
	return []Chart{ChartPosition, ChartVelocity, ChartAcceleration, ChartEnergy}
}

type line struct {
	column series.Column
	label  string
	color  color.RGBA
}

type layout struct {
	title  string
	ylabel string
	lines  []line
}

var layouts = map[Chart]layout{
	ChartPosition: {
		title: "Position x(t)", ylabel: "x (m)",
		lines: []line{{series.Position, "x", color.RGBA{75, 192, 192, 255}}},
	},
	ChartVelocity: {
		title: "Velocity v(t)", ylabel: "v (m/s)",
		lines: []line{{series.Velocity, "v", color.RGBA{255, 99, 132, 255}}},
	},
	ChartAcceleration: {
		title: "Acceleration a(t)", ylabel: "a (m/s²)",
		lines: []line{{series.Acceleration, "a", color.RGBA{255, 206, 86, 255}}},
	},
	ChartEnergy: {
		title: "Energy", ylabel: "E (J)",
		lines: []line{
			{series.Kinetic, "Ec", color.RGBA{54, 162, 235, 255}},
			{series.Potential, "Ep", color.RGBA{153, 102, 255, 255}},
			{series.Total, "Et", color.RGBA{255, 159, 64, 255}},
		},
	},
}

const (
	widthIn  = 8.0
	heightIn = 6.0
	dpi      = 150
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.Title.Padding = vg.Points(10)
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Tick.Label.Font.Size = vg.Points(11)
	p.Y.Tick.Label.Font.Size = vg.Points(11)
	p.X.Tick.Marker = limitedTicker(8, "%.1f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")
	p.Add(plotter.NewGrid())
}

func build(chart Chart, samples []oscillator.Snapshot) (*plot.Plot, error) {
	sp, ok := layouts[chart]
	if !ok {
		return nil, fmt.Errorf("unknown chart %q", chart)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("chart %s: no samples", chart)
	}

	p := plot.New()
	p.Title.Text = sp.title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = sp.ylabel
	stylePlot(p)

	for _, l := range sp.lines {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i].X = s.Time
			pts[i].Y = series.Value(s, l.column)
		}
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", chart, err)
		}
		ln.LineStyle.Width = vg.Points(2)
		ln.LineStyle.Color = l.color
		p.Add(ln)
		p.Legend.Add(l.label, ln)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG renders one chart of samples to w.
func WritePNG(w io.Writer, chart Chart, samples []oscillator.Snapshot) error {
	p, err := build(chart, samples)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

// SaveAll writes every chart into dir as <chart>.png and returns the paths.
func SaveAll(dir string, samples []oscillator.Snapshot) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	paths := make([]string, 0, len(layouts))
	for _, chart := range Charts() {
		path := filepath.Join(dir, string(chart)+".png")
		if err := savePNG(path, chart, samples); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePNG(path string, chart Chart, samples []oscillator.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	return WritePNG(f, chart, samples)
}
