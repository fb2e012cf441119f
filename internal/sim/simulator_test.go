package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/oscilab/internal/oscillator"
)

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s oscillator.Snapshot) {
	t.count++
	t.sum += s.Position
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestRunnerRun(t *testing.T) {
	h := oscillator.NewDefaultHarmonic()
	r := New(nil)

	result, err := r.Run(context.Background(), h, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", result.Steps)
	}
	if result.System != oscillator.KindHarmonic {
		t.Errorf("expected harmonic, got %s", result.System)
	}
	if result.Samples[0].Time != 0 {
		t.Errorf("first sample should be at t=0, got %f", result.Samples[0].Time)
	}

	final := result.Final()
	if math.Abs(final.Time-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", final.Time)
	}
	expected := 2 * math.Cos(math.Sqrt(10)*final.Time)
	if math.Abs(final.Position-expected) > 1e-9 {
		t.Errorf("expected x=%.6f, got %.6f", expected, final.Position)
	}
	if h.IsPaused() {
		t.Error("runner should start a paused oscillator")
	}
}

func TestRunnerSlowMotion(t *testing.T) {
	p := oscillator.NewDefaultSimplePendulum()
	p.SetSlowMotion(true)

	result, err := New(nil).Run(context.Background(), p, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if math.Abs(result.Final().Time-0.1) > 1e-9 {
		t.Errorf("expected model time 0.1 in slow motion, got %f", result.Final().Time)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), oscillator.NewDefaultHarmonic(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerMetricsAndObservers(t *testing.T) {
	r := New(nil)

	metric := &testMetric{}
	r.AddMetric(metric)

	var seen int
	r.AddObserver(ObserverFunc(func(oscillator.Snapshot) { seen++ }))

	result, err := r.Run(context.Background(), oscillator.NewDefaultCompoundPendulum(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
	if seen != 11 {
		t.Errorf("expected 11 observer calls, got %d", seen)
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(nil).Run(ctx, oscillator.NewDefaultHarmonic(), Config{Dt: 0.01, Duration: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Samples) != 1 {
		t.Errorf("expected only the initial sample, got %d", len(result.Samples))
	}
}

func TestRunAll(t *testing.T) {
	var jobs []Job
	for _, kind := range oscillator.Kinds() {
		o, err := oscillator.New(kind)
		if err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, Job{Oscillator: o, Config: Config{Dt: 0.05, Duration: 1}})
	}

	results, err := RunAll(context.Background(), jobs, func() []Metric {
		return []Metric{&testMetric{}}
	}, nil)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	for i, kind := range oscillator.Kinds() {
		if results[i].System != kind {
			t.Errorf("result %d: expected %s, got %s", i, kind, results[i].System)
		}
		if len(results[i].Samples) != 21 {
			t.Errorf("%s: expected 21 samples, got %d", kind, len(results[i].Samples))
		}
		if _, ok := results[i].Metrics["test"]; !ok {
			t.Errorf("%s: metric missing", kind)
		}
	}

	jobs[1].Config.Dt = 0
	if _, err := RunAll(context.Background(), jobs, nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
