// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by all validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Farm size distributions.
const (
	DistUniform = "uniform"
	DistLSU     = "lsu"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Population  PopulationConfig  `yaml:"population"`
	Grid        GridConfig        `yaml:"grid"`
	FarmSize    FarmSizeConfig    `yaml:"farm_size"`
	Willingness WillingnessConfig `yaml:"willingness"`

	// BiogasPayment is paid to every plant owner each step.
	BiogasPayment float64 `yaml:"biogas_payment"`

	// Seed for the model-owned RNG. Identical configs with identical seeds
	// produce identical runs; drivers substitute a time-based seed for 0.
	Seed int64 `yaml:"seed"`
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	NFarmers int `yaml:"n_farmers"`

	// InnovatorShare is the fraction of farmers whose willingness threshold
	// is drawn from the low (eager) fifth of the configured range.
	InnovatorShare float64 `yaml:"innovator_share"`
}

// GridConfig holds the toroidal grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FarmSizeConfig holds the farm size range and sampling distribution.
type FarmSizeConfig struct {
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
	Distribution string  `yaml:"distribution"` // "uniform" or "lsu"
	Shift        float64 `yaml:"shift"`        // lsu only: shifts the sampled mean
}

// WillingnessConfig holds the willingness threshold range, both in [0,1].
type WillingnessConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Validate rejects malformed configurations before any model state exists.
func (c *Config) Validate() error {
	if c.Population.NFarmers < 0 {
		return fmt.Errorf("%w: n_farmers must not be negative (got %d)", ErrInvalidConfig, c.Population.NFarmers)
	}
	if s := c.Population.InnovatorShare; s < 0 || s > 1 {
		return fmt.Errorf("%w: innovator_share must be in [0,1] (got %g)", ErrInvalidConfig, s)
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive (got %dx%d)", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	if c.FarmSize.Min > c.FarmSize.Max {
		return fmt.Errorf("%w: farm_size.min %g exceeds farm_size.max %g", ErrInvalidConfig, c.FarmSize.Min, c.FarmSize.Max)
	}
	switch c.FarmSize.Distribution {
	case DistUniform, DistLSU:
	default:
		return fmt.Errorf("%w: unknown farm_size.distribution %q", ErrInvalidConfig, c.FarmSize.Distribution)
	}
	w := c.Willingness
	if w.Min < 0 || w.Max > 1 || w.Min > w.Max {
		return fmt.Errorf("%w: willingness range [%g,%g] must satisfy 0 <= min <= max <= 1", ErrInvalidConfig, w.Min, w.Max)
	}
	if c.BiogasPayment < 0 {
		return fmt.Errorf("%w: biogas_payment must not be negative (got %g)", ErrInvalidConfig, c.BiogasPayment)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
