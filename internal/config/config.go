package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/series"
)

const (
	DefaultDt        = oscillator.DefaultTimeStep
	DefaultDuration  = 10.0
	DefaultFPS       = 60
	DefaultDataDir   = ".oscilab"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

type Config struct {
	System        string             `yaml:"system"`
	Dt            float64            `yaml:"dt"`
	Duration      float64            `yaml:"duration"`
	FPS           int                `yaml:"fps"`
	SlowMotion    bool               `yaml:"slow_motion"`
	ChartCapacity int                `yaml:"chart_capacity"`
	DataDir       string             `yaml:"data_dir"`
	LogLevel      string             `yaml:"log_level"`
	LogFormat     string             `yaml:"log_format"`
	Params        map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		System:        string(oscillator.KindHarmonic),
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		FPS:           DefaultFPS,
		ChartCapacity: series.DefaultCapacity,
		DataDir:       DefaultDataDir,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings. Physical parameters are passed
// through untouched.
func (c *Config) Validate() error {
	if _, err := oscillator.ParseKind(c.System); err != nil {
		return err
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.ChartCapacity <= 0 {
		return fmt.Errorf("chart_capacity must be positive, got %d", c.ChartCapacity)
	}
	return nil
}

func (c *Config) Kind() (oscillator.Kind, error) {
	return oscillator.ParseKind(c.System)
}

// Build creates the configured system and applies Params in key order.
func (c *Config) Build() (oscillator.Oscillator, error) {
	kind, err := c.Kind()
	if err != nil {
		return nil, err
	}
	o, err := oscillator.New(kind)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(o); err != nil {
		return nil, err
	}
	o.SetSlowMotion(c.SlowMotion)
	o.SetTimeStep(c.Dt)
	return o, nil
}

// Apply sets every configured parameter on o.
func (c *Config) Apply(o oscillator.Oscillator) error {
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.SetParam(k, c.Params[k]); err != nil {
			return err
		}
	}
	return nil
}

// Merge copies params into the config, overriding existing entries.
func (c *Config) Merge(params map[string]float64) {
	if len(params) == 0 {
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]float64, len(params))
	}
	for k, v := range params {
		c.Params[k] = v
	}
}
