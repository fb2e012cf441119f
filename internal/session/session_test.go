package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/oscilab/internal/oscillator"
)

func newSession(t *testing.T, kind oscillator.Kind) *Session {
	t.Helper()
	s, err := New(kind, 10, nil)
	require.NoError(t, err)
	return s
}

func TestNewStartsPaused(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)
	assert.False(t, s.Running())
	assert.Equal(t, oscillator.KindHarmonic, s.Kind())
	assert.Equal(t, 0, s.Series().Len())

	_, err := New("lorenz", 10, nil)
	assert.ErrorIs(t, err, oscillator.ErrUnknownKind)
}

func TestTickRecordsOnlyWhileRunning(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)

	s.Tick(0.1)
	assert.Equal(t, 0, s.Series().Len())
	assert.Zero(t, s.Active().Time())

	s.Start()
	s.Tick(0.1)
	s.Tick(0.1)
	assert.Equal(t, 2, s.Series().Len())
	assert.InDelta(t, 0.2, s.Active().Time(), 1e-12)

	last, ok := s.Series().Last()
	require.True(t, ok)
	assert.Equal(t, s.Snapshot(), last)
}

func TestResetPausesAndClears(t *testing.T) {
	s := newSession(t, oscillator.KindSimplePendulum)
	s.Start()
	s.Tick(0.5)

	s.Reset()
	assert.False(t, s.Running())
	assert.Zero(t, s.Active().Time())
	assert.Equal(t, 0, s.Series().Len())

	s.Reset()
	assert.Zero(t, s.Active().Time())
}

func TestSlowMotionSurvivesSwitch(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)
	assert.True(t, s.ToggleSlowMotion())

	require.NoError(t, s.Switch(oscillator.KindCompoundPendulum))
	assert.True(t, s.Active().SlowMotion())

	s.Start()
	s.Tick(1)
	assert.InDelta(t, 0.1, s.Active().Time(), 1e-12)

	assert.False(t, s.ToggleSlowMotion())
	assert.False(t, s.Active().SlowMotion())
}

func TestSwitchPausesAndClears(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)
	s.Start()
	s.Tick(0.1)

	require.NoError(t, s.Switch(oscillator.KindSimplePendulum))
	assert.False(t, s.Running())
	assert.Equal(t, 0, s.Series().Len())
	assert.Equal(t, oscillator.KindSimplePendulum, s.Kind())

	assert.ErrorIs(t, s.Switch("nope"), oscillator.ErrUnknownKind)
	assert.Equal(t, oscillator.KindSimplePendulum, s.Kind())
}

func TestSetParamResetsModelAndSeries(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)
	s.Start()
	s.Tick(0.3)

	require.NoError(t, s.SetParam(oscillator.KeyAmplitude, 3))
	assert.Zero(t, s.Active().Time())
	assert.Equal(t, 0, s.Series().Len())
	assert.InDelta(t, 3, s.Active().Position(), 1e-12)

	assert.ErrorIs(t, s.SetParam(oscillator.KeyLength, 1), oscillator.ErrUnknownParam)
}

func TestNudgeClampsToSlider(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)

	v, err := s.Nudge(oscillator.KeySpringConstant, 2)
	require.NoError(t, err)
	assert.InDelta(t, 12, v, 1e-9)

	v, err = s.Nudge(oscillator.KeySpringConstant, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 50, v, 1e-9)

	v, err = s.Nudge(oscillator.KeyMass, -100)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, v, 1e-9)
	assert.InDelta(t, 0.1, s.Active().Parameters().Value(oscillator.KeyMass), 1e-9)

	_, err = s.Nudge(oscillator.KeyLength, 1)
	assert.ErrorIs(t, err, oscillator.ErrUnknownParam)
}

func TestCheckParamLeavesModelAlone(t *testing.T) {
	s := newSession(t, oscillator.KindSimplePendulum)

	assert.NoError(t, s.CheckParam(oscillator.KeyLength, 2.6))
	assert.ErrorIs(t, s.CheckParam(oscillator.KeyLength, 2.7), ErrOutOfRange)
	assert.ErrorIs(t, s.CheckParam(oscillator.KeyMass, -5), ErrOutOfRange)
	assert.ErrorIs(t, s.CheckParam(oscillator.KeyMass, math.NaN()), ErrOutOfRange)
	assert.ErrorIs(t, s.CheckParam(oscillator.KeyGravity, math.Inf(1)), ErrOutOfRange)
	assert.ErrorIs(t, s.CheckParam(oscillator.KeySpringConstant, 10), oscillator.ErrUnknownParam)

	assert.Equal(t, oscillator.DefaultLength, s.Active().Parameters().Value(oscillator.KeyLength))
}

func TestSlidersFollowParameterOrder(t *testing.T) {
	for _, kind := range oscillator.Kinds() {
		o, err := oscillator.New(kind)
		require.NoError(t, err)

		keys := o.Parameters().Keys()
		sl := Sliders(kind)
		require.Len(t, sl, len(keys), kind)
		for i, s := range sl {
			assert.Equal(t, keys[i], s.Key)
			assert.Less(t, s.Min, s.Max)
		}
	}
}

func TestUseAdoptsSlowMotion(t *testing.T) {
	s := newSession(t, oscillator.KindHarmonic)
	p := oscillator.NewDefaultSimplePendulum()
	p.SetSlowMotion(true)

	s.Use(p)
	assert.True(t, s.SlowMotion())
	assert.Equal(t, oscillator.KindSimplePendulum, s.Kind())
}
