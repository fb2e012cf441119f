package sim

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/oscilab/internal/oscillator"
)

// Job is one independent run of a batch.
type Job struct {
	Oscillator oscillator.Oscillator
	Config     Config
}

// RunAll executes jobs concurrently, each with its own Runner and a fresh
// set of metrics from newMetrics. Results keep the order of jobs. The
// first failing job cancels the rest.
func RunAll(ctx context.Context, jobs []Job, newMetrics func() []Metric, logger *zap.Logger) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r := New(logger)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					r.AddMetric(m)
				}
			}
			res, err := r.Run(ctx, job.Oscillator, job.Config)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
