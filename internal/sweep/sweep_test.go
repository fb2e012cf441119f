package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/sim"
)

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("length=0.5:2:0.5")
	require.NoError(t, err)
	assert.Equal(t, "length", a.Key)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, a.Values)

	for _, bad := range []string{"length", "length=1:2", "length=a:2:1", "length=2:1:0.5", "length=1:2:0"} {
		_, err := ParseAxis(bad)
		assert.Error(t, err, bad)
	}
}

func TestGridPeriodsFollowLength(t *testing.T) {
	axis, err := Range(oscillator.KeyLength, 0.5, 2, 0.5)
	require.NoError(t, err)

	g := New(oscillator.KindSimplePendulum, map[string]float64{oscillator.KeyGravity: 9.81}, []Axis{axis}, nil)
	points, err := g.Run(context.Background(), sim.Config{Dt: 0.005, Duration: 8})
	require.NoError(t, err)
	require.Len(t, points, 4)

	for i, p := range points {
		L := axis.Values[i]
		assert.Equal(t, L, p.Params[oscillator.KeyLength])
		assert.InDelta(t, 2*math.Pi*math.Sqrt(L/9.81), p.Period, 1e-9)
		assert.InDelta(t, p.Period, p.MeasuredPeriod, 0.01)
		assert.Contains(t, p.Metrics, "energy_drift")
	}
}

func TestGridCombinations(t *testing.T) {
	m, _ := Range(oscillator.KeyMass, 1, 2, 1)
	k, _ := Range(oscillator.KeySpringConstant, 10, 30, 10)
	g := New(oscillator.KindHarmonic, nil, []Axis{m, k}, nil)
	combos := g.combinations()
	require.Len(t, combos, 6)
	assert.Equal(t, map[string]float64{"mass": 1, "spring_constant": 10}, combos[0])
	assert.Equal(t, map[string]float64{"mass": 2, "spring_constant": 30}, combos[5])
}

func TestGridErrors(t *testing.T) {
	g := New(oscillator.KindHarmonic, nil, nil, nil)
	_, err := g.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 1})
	assert.ErrorIs(t, err, ErrEmptyGrid)

	bad := New(oscillator.KindHarmonic, nil, []Axis{{Key: "length", Values: []float64{1}}}, nil)
	_, err = bad.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 1})
	assert.ErrorIs(t, err, oscillator.ErrUnknownParam)
}

func TestGridSizeIsBounded(t *testing.T) {
	_, err := ParseAxis("mass=0:1e9:1e-6")
	assert.ErrorIs(t, err, ErrGridTooLarge)

	_, err = Range(oscillator.KeyMass, 0, math.Inf(1), 1)
	assert.Error(t, err)
	_, err = Range(oscillator.KeyMass, 0, 1, math.NaN())
	assert.Error(t, err)

	a, err := Range(oscillator.KeyMass, 1, 200, 1)
	require.NoError(t, err)
	b, err := Range(oscillator.KeySpringConstant, 1, 100, 1)
	require.NoError(t, err)
	g := New(oscillator.KindHarmonic, nil, []Axis{a, b}, nil)
	_, err = g.Run(context.Background(), sim.Config{Dt: 0.01, Duration: 1})
	assert.ErrorIs(t, err, ErrGridTooLarge)
}

func TestBest(t *testing.T) {
	points := []Point{
		{Metrics: map[string]float64{"peak_displacement": 2}},
		{Metrics: map[string]float64{"peak_displacement": math.NaN()}},
		{Metrics: map[string]float64{"peak_displacement": 0.5}},
	}
	p, ok := Best(points, "peak_displacement", false)
	require.True(t, ok)
	assert.Equal(t, 0.5, p.Metrics["peak_displacement"])

	p, ok = Best(points, "peak_displacement", true)
	require.True(t, ok)
	assert.Equal(t, 2.0, p.Metrics["peak_displacement"])

	_, ok = Best(points, "missing", false)
	assert.False(t, ok)
}
