// Package sweep runs one system over a grid of parameter values and
// collects the metrics and periods of every grid point.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/oscilab/internal/analysis"
	"github.com/san-kum/oscilab/internal/metrics"
	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/sim"
)

// MaxPoints bounds both a single axis and the whole grid.
const MaxPoints = 10000

var (
	ErrEmptyGrid    = errors.New("empty sweep grid")
	ErrGridTooLarge = errors.New("sweep grid too large")
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Key    string
	Values []float64
}

// ParseAxis reads "key=min:max:step".
func ParseAxis(s string) (Axis, error) {
	key, bounds, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return Axis{}, fmt.Errorf("invalid axis %q, want key=min:max:step", s)
	}
	parts := strings.Split(bounds, ":")
	if len(parts) != 3 {
		return Axis{}, fmt.Errorf("invalid axis %q, want key=min:max:step", s)
	}
	var nums [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("invalid axis %q: %w", s, err)
		}
		nums[i] = v
	}
	return Range(strings.TrimSpace(key), nums[0], nums[1], nums[2])
}

// Range builds the values min, min+step, ... up to and including max.
func Range(key string, min, max, step float64) (Axis, error) {
	if !(step > 0) || !(max >= min) || math.IsInf(max-min, 0) {
		return Axis{}, fmt.Errorf("invalid range for %s: %g:%g:%g", key, min, max, step)
	}
	count := math.Floor((max-min)/step+1e-9) + 1
	if count > MaxPoints {
		return Axis{}, fmt.Errorf("%w: %s has %.0f points, limit %d", ErrGridTooLarge, key, count, MaxPoints)
	}
	n := int(count)
	values := make([]float64, n)
	for i := range values {
		values[i] = min + float64(i)*step
	}
	return Axis{Key: key, Values: values}, nil
}

// Point is the outcome of one grid point.
type Point struct {
	Params         map[string]float64
	Metrics        map[string]float64
	Period         float64
	MeasuredPeriod float64
}

type Grid struct {
	kind   oscillator.Kind
	base   map[string]float64
	axes   []Axis
	logger *zap.Logger
}

// New sweeps kind with base parameters applied before the axis values.
func New(kind oscillator.Kind, base map[string]float64, axes []Axis, logger *zap.Logger) *Grid {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grid{kind: kind, base: base, axes: axes, logger: logger}
}

// combinations expands the axes in row-major order.
func (g *Grid) combinations() []map[string]float64 {
	combos := []map[string]float64{{}}
	for _, axis := range g.axes {
		next := make([]map[string]float64, 0, len(combos)*len(axis.Values))
		for _, c := range combos {
			for _, v := range axis.Values {
				m := make(map[string]float64, len(c)+1)
				for k, cv := range c {
					m[k] = cv
				}
				m[axis.Key] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}

func (g *Grid) build(params map[string]float64) (oscillator.Oscillator, error) {
	o, err := oscillator.New(g.kind)
	if err != nil {
		return nil, err
	}
	for _, src := range []map[string]float64{g.base, params} {
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := o.SetParam(k, src[k]); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// Run simulates every grid point concurrently. Points keep grid order.
func (g *Grid) Run(ctx context.Context, cfg sim.Config) ([]Point, error) {
	size := 1
	for _, axis := range g.axes {
		size *= len(axis.Values)
		if size > MaxPoints {
			return nil, fmt.Errorf("%w: more than %d points", ErrGridTooLarge, MaxPoints)
		}
	}
	combos := g.combinations()
	if len(g.axes) == 0 || len(combos) == 0 {
		return nil, ErrEmptyGrid
	}

	jobs := make([]sim.Job, len(combos))
	for i, params := range combos {
		o, err := g.build(params)
		if err != nil {
			return nil, err
		}
		jobs[i] = sim.Job{Oscillator: o, Config: cfg}
	}

	g.logger.Info("sweep started", zap.String("system", g.kind.String()), zap.Int("points", len(jobs)))
	results, err := sim.RunAll(ctx, jobs, metrics.Standard, g.logger)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(results))
	for i, res := range results {
		times := res.Column(func(s oscillator.Snapshot) float64 { return s.Time })
		xs := res.Column(func(s oscillator.Snapshot) float64 { return s.Position })
		points[i] = Point{
			Params:         combos[i],
			Metrics:        res.Metrics,
			Period:         jobs[i].Oscillator.Period(),
			MeasuredPeriod: analysis.EstimatePeriod(times, xs),
		}
	}
	return points, nil
}

// Best returns the point with the smallest value of metric, or the largest
// when maximize is set. NaN values never win.
func Best(points []Point, metric string, maximize bool) (Point, bool) {
	best, found := Point{}, false
	for _, p := range points {
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if !found {
			best, found = p, true
			continue
		}
		cur := best.Metrics[metric]
		if (maximize && v > cur) || (!maximize && v < cur) {
			best = p
		}
	}
	return best, found
}
