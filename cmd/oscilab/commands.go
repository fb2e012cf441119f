package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/oscilab/internal/analysis"
	"github.com/san-kum/oscilab/internal/config"
	"github.com/san-kum/oscilab/internal/metrics"
	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/plot"
	"github.com/san-kum/oscilab/internal/reference"
	"github.com/san-kum/oscilab/internal/report"
	"github.com/san-kum/oscilab/internal/server"
	"github.com/san-kum/oscilab/internal/sim"
	"github.com/san-kum/oscilab/internal/storage"
	"github.com/san-kum/oscilab/internal/sweep"
)

// runConfig layers, lowest first: config file, preset, flags.
func runConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	c := *cfg
	c.Params = nil
	c.Merge(cfg.Params)

	if len(args) > 0 {
		kind, err := oscillator.ParseKind(args[0])
		if err != nil {
			return nil, err
		}
		if string(kind) != c.System {
			// parameters from the file belong to another system
			c.Params = nil
		}
		c.System = string(kind)
	}

	if preset != "" {
		p := config.GetPreset(c.System, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(c.System))
		}
		c.Dt = p.Dt
		c.Duration = p.Duration
		c.Merge(p.Params)
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		v, err := flags.GetFloat64("dt")
		if err != nil {
			return nil, err
		}
		c.Dt = v
	}
	if flags.Changed("time") {
		c.Duration = duration
	}
	if flags.Changed("slow") {
		c.SlowMotion = slow
	}
	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	c.Merge(overrides)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	c, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	o, err := c.Build()
	if err != nil {
		return err
	}

	runner := sim.New(logger)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	var st *storage.Store
	if save {
		if st, err = storage.Open(c.DataDir); err != nil {
			return err
		}
		defer st.Close()
	}

	fmt.Printf("running %s simulation...\n", o.Kind())
	start := time.Now()

	result, err := runner.Run(cmd.Context(), o, sim.Config{Dt: c.Dt, Duration: c.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		System:     string(o.Kind()),
		Dt:         c.Dt,
		Duration:   c.Duration,
		SlowMotion: c.SlowMotion,
		Params:     o.Parameters().Map(),
		Metrics:    result.Metrics,
	}
	if save {
		if err := storage.Check(meta, result.Samples); err != nil {
			return fmt.Errorf("run not saved, check the parameters: %w", err)
		}
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nfinal state:")
	fmt.Printf("  t  = %.4f s\n", final.Time)
	if o.Kind() != oscillator.KindHarmonic {
		fmt.Printf("  θ  = %.4f rad\n", final.Angle)
	}
	fmt.Printf("  x  = %.4f m\n", final.Position)
	fmt.Printf("  v  = %.4f m/s\n", final.Velocity)
	fmt.Printf("  a  = %.4f m/s²\n", final.Acceleration)
	fmt.Printf("  Ec = %.4f J\n", final.Kinetic)
	fmt.Printf("  Ep = %.4f J\n", final.Potential)
	fmt.Printf("  Et = %.4f J\n", final.Total)

	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	times := result.Column(func(s oscillator.Snapshot) float64 { return s.Time })
	xs := result.Column(func(s oscillator.Snapshot) float64 { return s.Position })
	fmt.Println("\nperiod:")
	fmt.Printf("  theoretical: %.4f s\n", o.Period())
	if measured := analysis.EstimatePeriod(times, xs); measured > 0 {
		fmt.Printf("  measured:    %.4f s (%.2f%% off)\n", measured, 100*math.Abs(measured-o.Period())/o.Period())
	} else {
		fmt.Println("  measured:    n/a (run shorter than two periods)")
	}
	sampleDt := c.Dt
	if c.SlowMotion {
		sampleDt *= oscillator.SlowMotionFactor
	}
	if omega := analysis.DominantFrequency(xs, sampleDt); omega > 0 {
		fmt.Printf("  spectral ω:  %.4f rad/s (theory %.4f)\n", omega, o.AngularFrequency())
	}

	if phase {
		fmt.Println("\nphase portrait (x vs v):")
		fmt.Println(analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(result.Samples), 60, 20))
	}

	if showPlot {
		fmt.Println()
		fmt.Println(asciigraph.Plot(xs,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("x (m)"),
		))
	}

	if save {
		runID, err := st.Save(meta, result.Samples)
		if err != nil {
			return err
		}
		logger.Info("run saved", zap.String("id", runID), zap.Int("samples", len(result.Samples)))
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func printReport(cmd *cobra.Command, args []string) error {
	c, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	o, err := c.Build()
	if err != nil {
		return err
	}
	if reportAt < 0 {
		return fmt.Errorf("--at must not be negative, got %f", reportAt)
	}
	if reportAt > 0 {
		o.SetSlowMotion(false)
		o.Start()
		o.Update(reportAt)
		o.Pause()
	}
	return report.Render(os.Stdout, report.Build(o))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tCREATED\tDURATION\tDT\tSAMPLES\tSLOW")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%v\n",
			run.ID,
			run.System,
			humanize.Time(run.Timestamp),
			run.Duration,
			run.Dt,
			humanize.Comma(int64(run.Samples)),
			run.SlowMotion,
		)
	}

	return w.Flush()
}

// loadRun opens the catalog and fetches one run with its samples.
func loadRun(runID string) (*storage.RunMetadata, []oscillator.Snapshot, error) {
	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("duration: %.2fs, dt: %.4fs\n\n", meta.Duration, meta.Dt)

	column := func(get func(oscillator.Snapshot) float64) []float64 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = get(s)
		}
		return out
	}

	fmt.Println(asciigraph.Plot(column(func(s oscillator.Snapshot) float64 { return s.Position }),
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("x (m)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{
		column(func(s oscillator.Snapshot) float64 { return s.Kinetic }),
		column(func(s oscillator.Snapshot) float64 { return s.Potential }),
		column(func(s oscillator.Snapshot) float64 { return s.Total }),
	},
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("Ec Ep Et (J)"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, *meta, samples)
}

func chartRun(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	paths, err := plot.SaveAll(outDir, samples)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	c := *cfg
	if cmd.Flags().Changed("fps") {
		c.FPS = frameRate
	}
	sess, err := newSession(&c)
	if err != nil {
		return err
	}
	logger.Info("serving", zap.String("addr", addr), zap.String("system", string(sess.Kind())), zap.Int("fps", c.FPS))
	return server.New(sess, &c, logger).Run(cmd.Context(), addr)
}

func verifySystem(cmd *cobra.Command, args []string) error {
	c, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	o, err := c.Build()
	if err != nil {
		return err
	}

	// verify has its own finer --dt default, so the step never comes
	// from the config file or a preset
	step := verifyDt

	out := cmd.OutOrStdout()
	cmp, err := reference.Compare(cmd.Context(), o, integrator, step, c.Duration)
	if err != nil {
		return err
	}

	coord, unit := "x", "m"
	if o.Kind() != oscillator.KindHarmonic {
		coord, unit = "θ", "rad"
	}
	fmt.Fprintf(out, "%s vs %s, %d steps of %.4fs\n\n", o.Kind(), cmp.Integrator, cmp.Steps, step)
	fmt.Fprintf(out, "  max |Δ%s|:      %.6g %s\n", coord, cmp.MaxError, unit)
	fmt.Fprintf(out, "  final |Δ%s|:    %.6g %s\n", coord, cmp.FinalError, unit)
	fmt.Fprintf(out, "  period closed:  %.6f s\n", cmp.ClosedPeriod)
	if cmp.NumericPeriod > 0 {
		fmt.Fprintf(out, "  period numeric: %.6f s (%+.3f%%)\n", cmp.NumericPeriod, 100*(cmp.NumericPeriod-cmp.ClosedPeriod)/cmp.ClosedPeriod)
	}
	fmt.Fprintf(out, "  energy drift:   %.3g\n", cmp.EnergyDrift)
	return nil
}

func sweepSystem(cmd *cobra.Command, args []string) error {
	c, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	kind, err := c.Kind()
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --range is required")
	}

	grid := make([]sweep.Axis, 0, len(axes))
	for _, a := range axes {
		axis, err := sweep.ParseAxis(a)
		if err != nil {
			return err
		}
		grid = append(grid, axis)
	}

	start := time.Now()
	points, err := sweep.New(kind, c.Params, grid, logger).Run(cmd.Context(), sim.Config{Dt: c.Dt, Duration: c.Duration})
	if err != nil {
		return err
	}
	fmt.Printf("%d points in %v\n\n", len(points), time.Since(start).Round(time.Millisecond))

	names := sortedKeys(points[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := ""
	for _, axis := range grid {
		header += strings.ToUpper(axis.Key) + "\t"
	}
	header += "T\tT MEASURED"
	for _, name := range names {
		header += "\t" + strings.ToUpper(name)
	}
	fmt.Fprintln(w, header)

	for _, p := range points {
		row := ""
		for _, axis := range grid {
			row += fmt.Sprintf("%.4g\t", p.Params[axis.Key])
		}
		row += fmt.Sprintf("%.4f\t%.4f", p.Period, p.MeasuredPeriod)
		for _, name := range names {
			row += fmt.Sprintf("\t%.4g", p.Metrics[name])
		}
		fmt.Fprintln(w, row)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if objective != "" {
		best, ok := sweep.Best(points, objective, maximize)
		if !ok {
			return fmt.Errorf("unknown metric: %s (available: %v)", objective, names)
		}
		fmt.Printf("\nbest %s = %.6g at", objective, best.Metrics[objective])
		for _, axis := range grid {
			fmt.Printf(" %s=%.4g", axis.Key, best.Params[axis.Key])
		}
		fmt.Println()
	}
	return nil
}
