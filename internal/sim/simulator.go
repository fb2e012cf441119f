package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/oscilab/internal/oscillator"
)

// Runner drives an oscillator headlessly at a fixed step.
type Runner struct {
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run samples o at t = 0 and after every step of cfg.Dt until
// cfg.Duration is covered. A paused oscillator is started first.
func (r *Runner) Run(ctx context.Context, o oscillator.Oscillator, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		System:  o.Kind(),
		Samples: make([]oscillator.Snapshot, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	if o.IsPaused() {
		o.Start()
	}

	r.logger.Debug("run started",
		zap.String("system", o.Kind().String()),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
		zap.Bool("slow_motion", o.SlowMotion()),
	)

	r.record(result, oscillator.Sample(o))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		o.Update(cfg.Dt)
		result.Steps++
		r.record(result, oscillator.Sample(o))
	}

	r.collect(result)
	r.logger.Debug("run finished", zap.Int("steps", result.Steps))
	return result, nil
}

func (r *Runner) record(result *Result, s oscillator.Snapshot) {
	result.Samples = append(result.Samples, s)
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, obs := range r.observers {
		obs.OnSample(s)
	}
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
