package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmosim/internal/physics"
	"github.com/san-kum/cosmosim/internal/sim"
)

// Present-day densities in kg/m^3 used when none are given.
const (
	DefaultMatter     = 2.53e-27
	DefaultRadiation  = 5.60e-31
	DefaultDarkEnergy = 6.78e-27
)

type Config struct {
	Densities      physics.Densities `yaml:"densities"`
	Dt             float64           `yaml:"dt"`
	MinScaleFactor float64           `yaml:"min_scale_factor"`
	Horizon        float64           `yaml:"horizon"`
	HubbleRate     float64           `yaml:"hubble_rate"`
	MaxSteps       int               `yaml:"max_steps"`
	Parallel       bool              `yaml:"parallel"`
}

func DefaultConfig() *Config {
	return &Config{
		Densities: physics.Densities{
			Matter:     DefaultMatter,
			Radiation:  DefaultRadiation,
			DarkEnergy: DefaultDarkEnergy,
		},
		Dt:             sim.DefaultDt,
		MinScaleFactor: sim.DefaultMinScaleFactor,
		Horizon:        sim.DefaultHorizon,
		HubbleRate:     physics.H,
		MaxSteps:       sim.DefaultMaxSteps,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. Keys the file omits keep
// the values of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Densities.Validate(); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	return nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:             c.Dt,
		MinScaleFactor: c.MinScaleFactor,
		Horizon:        c.Horizon,
		InitialRate:    c.HubbleRate,
		MaxSteps:       c.MaxSteps,
		ValidateState:  true,
		Parallel:       c.Parallel,
	}
}
