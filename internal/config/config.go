package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cashcopilot-dev/cashcopilot/internal/analysis"
	"github.com/cashcopilot-dev/cashcopilot/internal/scenario"
)

// Config represents the top-level copilot.yaml configuration.
type Config struct {
	Forecast ForecastConfig  `yaml:"forecast"`
	Detector DetectorConfig  `yaml:"detector"`
	Scenario scenario.Params `yaml:"scenario"`
	Rules    RulesConfig     `yaml:"rules"`
}

// ForecastConfig holds the forecast knobs.
type ForecastConfig struct {
	StartingBalance float64 `yaml:"starting_balance"`
	HorizonDays     int     `yaml:"horizon_days"`
	MAWindow        int     `yaml:"ma_window"`
}

// DetectorConfig holds the recurrence detector knobs.
type DetectorConfig struct {
	MinCount int `yaml:"min_count"`
}

// RulesConfig points at an optional categorization rules file.
type RulesConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load reads a copilot.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard knob settings.
func Default() *Config {
	opts := analysis.DefaultOptions()
	bal, _ := opts.StartingBalance.Float64()
	return &Config{
		Forecast: ForecastConfig{
			StartingBalance: bal,
			HorizonDays:     opts.HorizonDays,
			MAWindow:        opts.MAWindow,
		},
		Detector: DetectorConfig{
			MinCount: opts.MinCount,
		},
	}
}

// Options converts the file representation into pipeline options.
func (c *Config) Options() analysis.Options {
	return analysis.Options{
		StartingBalance: decimal.NewFromFloat(c.Forecast.StartingBalance),
		HorizonDays:     c.Forecast.HorizonDays,
		MAWindow:        c.Forecast.MAWindow,
		MinCount:        c.Detector.MinCount,
		Scenario:        c.Scenario,
	}
}
