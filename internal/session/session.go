// Package session drives the single active oscillator shown by the
// terminal UI and the web server.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/series"
)

type Session struct {
	active     oscillator.Oscillator
	series     *series.Rolling
	slowMotion bool
	logger     *zap.Logger
}

func New(kind oscillator.Kind, capacity int, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		series: series.New(capacity),
		logger: logger,
	}
	if err := s.Switch(kind); err != nil {
		return nil, err
	}
	return s, nil
}

// Switch replaces the active model with a fresh default one. The new model
// is paused and inherits the session's slow-motion flag.
func (s *Session) Switch(kind oscillator.Kind) error {
	o, err := oscillator.New(kind)
	if err != nil {
		return err
	}
	if s.active != nil {
		s.active.Pause()
	}
	o.SetSlowMotion(s.slowMotion)
	s.active = o
	s.series.Clear()
	s.logger.Info("system selected", zap.String("system", kind.String()))
	return nil
}

// Use installs an already configured model.
func (s *Session) Use(o oscillator.Oscillator) {
	if s.active != nil {
		s.active.Pause()
	}
	s.slowMotion = o.SlowMotion()
	s.active = o
	s.series.Clear()
	s.logger.Info("system installed", zap.String("system", o.Kind().String()))
}

func (s *Session) Active() oscillator.Oscillator { return s.active }
func (s *Session) Kind() oscillator.Kind          { return s.active.Kind() }
func (s *Session) Series() *series.Rolling        { return s.series }
func (s *Session) SlowMotion() bool               { return s.slowMotion }
func (s *Session) Running() bool                  { return !s.active.IsPaused() }

func (s *Session) Start() {
	s.active.Start()
	s.logger.Debug("started", zap.Float64("t", s.active.Time()))
}

func (s *Session) Pause() {
	s.active.Pause()
	s.logger.Debug("paused", zap.Float64("t", s.active.Time()))
}

// Toggle starts a paused model or pauses a running one.
func (s *Session) Toggle() {
	if s.active.IsPaused() {
		s.Start()
		return
	}
	s.Pause()
}

func (s *Session) Reset() {
	s.active.Pause()
	s.active.Reset()
	s.series.Clear()
	s.logger.Debug("reset")
}

func (s *Session) ToggleSlowMotion() bool {
	s.slowMotion = !s.slowMotion
	s.active.SetSlowMotion(s.slowMotion)
	s.logger.Debug("slow motion", zap.Bool("enabled", s.slowMotion))
	return s.slowMotion
}

// SetParam forwards to the model, which resets itself, and drops the
// chart history recorded under the old parameters.
func (s *Session) SetParam(key string, value float64) error {
	if err := s.active.SetParam(key, value); err != nil {
		return err
	}
	s.series.Clear()
	s.logger.Debug("parameter changed", zap.String("key", key), zap.Float64("value", value))
	return nil
}

// Nudge moves a parameter by steps slider increments, clamped to the
// slider range, and returns the value applied.
func (s *Session) Nudge(key string, steps int) (float64, error) {
	sl, ok := sliderFor(s.Kind(), key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", oscillator.ErrUnknownParam, key)
	}
	current := s.active.Parameters().Value(key)
	next := sl.Clamp(current + float64(steps)*sl.Step)
	if err := s.SetParam(key, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Session) Sliders() []Slider { return Sliders(s.Kind()) }

// CheckParam rejects a value the active kind's slider would not allow,
// without touching the model.
func (s *Session) CheckParam(key string, value float64) error {
	sl, ok := sliderFor(s.Kind(), key)
	if !ok {
		return fmt.Errorf("%w: %s", oscillator.ErrUnknownParam, key)
	}
	if !sl.Contains(value) {
		return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, key, value, sl.Min, sl.Max)
	}
	return nil
}

// Tick advances a running model by dt and records a chart sample.
func (s *Session) Tick(dt float64) {
	if s.active.IsPaused() {
		return
	}
	s.active.Update(dt)
	s.series.Append(oscillator.Sample(s.active))
}

func (s *Session) Snapshot() oscillator.Snapshot {
	return oscillator.Sample(s.active)
}
