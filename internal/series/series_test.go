package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscilab/internal/oscillator"
)

func snap(t float64) oscillator.Snapshot {
	return oscillator.Snapshot{Time: t, Position: 10 * t, Total: 1}
}

func TestRollingEvictsOldestFirst(t *testing.T) {
	r := New(3)
	for i := 0; i < 5; i++ {
		r.Append(snap(float64(i)))
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, r.Cap())
	assert.Equal(t, []float64{2, 3, 4}, r.Column(Time))
	assert.Equal(t, []float64{20, 30, 40}, r.Column(Position))

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, 4.0, last.Time)
}

func TestRollingBeforeFull(t *testing.T) {
	r := New(10)
	r.Append(snap(1))
	r.Append(snap(2))

	samples := r.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, 1.0, samples[0].Time)
	assert.Equal(t, 2.0, samples[1].Time)
}

func TestRollingClear(t *testing.T) {
	r := New(2)
	r.Append(snap(1))
	r.Append(snap(2))
	r.Append(snap(3))
	r.Clear()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Last()
	assert.False(t, ok)

	r.Append(snap(7))
	assert.Equal(t, []float64{7}, r.Column(Time))
}

func TestDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
}

func TestColumnsCoverSnapshot(t *testing.T) {
	s := oscillator.Snapshot{Time: 1, Position: 2, Velocity: 3, Acceleration: 4, Kinetic: 5, Potential: 6, Total: 7}
	for i, c := range Columns() {
		assert.Equal(t, float64(i+1), Value(s, c), c.String())
	}
}
