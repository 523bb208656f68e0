package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"SMASentinel/internal/strategy"
)

// DefaultPath is used when neither a flag nor SENTINEL_CONFIG names a file.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Strategy struct {
		BreakoutLookback  int              `yaml:"breakout_lookback"`
		PullbackTolerance float64          `yaml:"pullback_tolerance"`
		Rules             strategy.RuleSet `yaml:"rules"`
		Filters           strategy.Filters `yaml:"filters"`
	} `yaml:"strategy"`
	Data struct {
		Input         string `yaml:"input"`
		ResampleHours int    `yaml:"resample_hours"`
	} `yaml:"data"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error. Strategy defaults are seeded before parsing, so a
// file only has to name what it changes and an explicit zero is kept.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Strategy.BreakoutLookback = strategy.DefaultBreakoutLookback
	cfg.Strategy.PullbackTolerance = strategy.DefaultPullbackTolerance
	cfg.Strategy.Rules = strategy.AllRules()
	cfg.Strategy.Filters = strategy.DefaultFilters()
	cfg.Data.ResampleHours = 1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SENTINEL_INPUT"); v != "" {
		cfg.Data.Input = v
	}
	if v := os.Getenv("SENTINEL_BREAKOUT_LOOKBACK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_BREAKOUT_LOOKBACK: %w", err)
		}
		cfg.Strategy.BreakoutLookback = n
	}
	if v := os.Getenv("SENTINEL_PULLBACK_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_PULLBACK_TOLERANCE: %w", err)
		}
		cfg.Strategy.PullbackTolerance = f
	}
	if v := os.Getenv("SENTINEL_ATR_FILTER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_ATR_FILTER: %w", err)
		}
		cfg.Strategy.Filters.ATR.Enabled = b
	}
	if v := os.Getenv("SENTINEL_REGIME_FILTER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_REGIME_FILTER: %w", err)
		}
		cfg.Strategy.Filters.Regime.Enabled = b
	}
	if v := os.Getenv("SENTINEL_RESAMPLE_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SENTINEL_RESAMPLE_HOURS: %w", err)
		}
		cfg.Data.ResampleHours = n
	}
	if v := os.Getenv("SENTINEL_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SENTINEL_METRICS_FILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv("SENTINEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 5 * * * *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Params converts the strategy section into engine parameters.
func (c *Config) Params() strategy.Params {
	return strategy.Params{
		BreakoutLookback:  c.Strategy.BreakoutLookback,
		PullbackTolerance: c.Strategy.PullbackTolerance,
		Rules:             c.Strategy.Rules,
		Filters:           c.Strategy.Filters,
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if c.Data.ResampleHours < 0 {
		return fmt.Errorf("data.resample_hours must not be negative")
	}
	if c.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required")
	}
	return nil
}
