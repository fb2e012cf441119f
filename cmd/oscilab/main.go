package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/oscilab/internal/config"
	"github.com/san-kum/oscilab/internal/logging"
	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/session"
	"github.com/san-kum/oscilab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string

	dt       float64
	verifyDt float64
	duration float64
	params   []string
	slow     bool
	preset   string
	save     bool
	showPlot bool
	phase    bool

	integrator string
	axes       []string
	objective  string
	maximize   bool

	reportAt  float64
	outDir    string
	addr      string
	frameRate int

	logger = zap.NewNop()
	cfg    = config.DefaultConfig()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oscilab",
		Short: "closed-form oscillator lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}
			return viz.Run(sess, cfg.FPS)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list systems and their default parameters",
		RunE:  listSystems,
	}

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run a headless simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "parameter override key=value (repeatable)")
	runCmd.Flags().BoolVar(&slow, "slow", false, "slow motion (time advances at 0.1x)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the catalog")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot position after the run")
	runCmd.Flags().BoolVar(&phase, "phase", false, "print the x-v phase portrait")

	reportCmd := &cobra.Command{
		Use:   "report [system]",
		Short: "print the methodology report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printReport,
	}
	reportCmd.Flags().Float64Var(&reportAt, "at", 0, "time in seconds")
	reportCmd.Flags().StringArrayVar(&params, "param", nil, "parameter override key=value (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render run charts as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&outDir, "out", "charts", "output directory")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := oscillator.ParseKind(args[0])
			if err != nil {
				return err
			}
			presets := config.ListPresets(string(kind))
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", kind)
				return nil
			}
			fmt.Printf("presets for %s:\n", kind)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [system]",
		Short: "compare the closed form against the integrated nonlinear equation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifySystem,
	}
	verifyCmd.Flags().Float64Var(&verifyDt, "dt", 0.001, "integration timestep")
	verifyCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	verifyCmd.Flags().StringArrayVar(&params, "param", nil, "parameter override key=value (repeatable)")
	verifyCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, leapfrog, rk4, verlet)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "run a system over a parameter grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepSystem,
	}
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	sweepCmd.Flags().StringArrayVar(&params, "param", nil, "fixed parameter key=value (repeatable)")
	sweepCmd.Flags().StringArrayVar(&axes, "range", nil, "swept parameter key=min:max:step (repeatable)")
	sweepCmd.Flags().StringVar(&objective, "best", "", "report the point minimising this metric")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "maximise --best instead")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP and WebSocket front end",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	rootCmd.AddCommand(systemsCmd, runCmd, reportCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, chartCmd, presetsCmd, verifyCmd, sweepCmd, serveCmd)
	return rootCmd
}

// setup builds the logger and the base configuration. Flags set on the
// command line win over the config file.
func setup(cmd *cobra.Command) error {
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") || cfg.LogFormat == "" {
		cfg.LogFormat = logFormat
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// parseParams turns key=value pairs into a parameter map.
func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, want key=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		out[strings.TrimSpace(key)] = v
	}
	return out, nil
}

// newSession starts the interactive session on the configured system with
// its configured parameters.
func newSession(c *config.Config) (*session.Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, err := c.Kind()
	if err != nil {
		return nil, err
	}
	sess, err := session.New(kind, c.ChartCapacity, logger)
	if err != nil {
		return nil, err
	}
	o, err := c.Build()
	if err != nil {
		return nil, err
	}
	sess.Use(o)
	return sess, nil
}

func listSystems(cmd *cobra.Command, args []string) error {
	for i, kind := range oscillator.Kinds() {
		o, err := oscillator.New(kind)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%s)\n", kind, kind.Title())
		fmt.Printf("  ω = %.4f rad/s, T = %.4f s\n", o.AngularFrequency(), o.Period())
		for _, sl := range session.Sliders(kind) {
			q, _ := o.Parameters().Get(sl.Key)
			fmt.Printf("  %-18s %8.4f %-6s [%g, %g] step %g\n", q.Key, q.Value, q.Unit, sl.Min, sl.Max, sl.Step)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
