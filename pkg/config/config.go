// Package config provides configuration loading and management for livewire.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"livewire/pkg/livewire"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Live-wire engine parameters
	LiveWire struct {
		// FullNeighbors selects 8-connected (true) or 4-connected search
		FullNeighbors bool `yaml:"fullNeighbors"`

		// StepCost is the constant cost of entering any pixel
		StepCost float64 `yaml:"stepCost"`

		// GradientWeight scales the edge term of the cost function
		GradientWeight float64 `yaml:"gradientWeight"`

		// DynamicWeight controls how strongly a learned cost map discounts edges
		DynamicWeight float64 `yaml:"dynamicWeight"`

		// UseDynamicCostTransfer learns a cost map from each traced segment
		UseDynamicCostTransfer bool `yaml:"useDynamicCostTransfer"`

		// MakeOutputImage produces the path label image
		MakeOutputImage bool `yaml:"makeOutputImage"`

		// CalcAllDistances computes distances to every pixel of the region
		CalcAllDistances bool `yaml:"calcAllDistances"`
	} `yaml:"liveWire"`

	// Image geometry used when the input file carries none
	Image struct {
		// Spacing is the pixel size in mm along x and y
		Spacing [2]float64 `yaml:"spacing"`

		// Origin is the world position of pixel (0,0) in mm
		Origin [2]float64 `yaml:"origin"`
	} `yaml:"image"`

	// Output parameters
	Output struct {
		// ContourFile is where the traced contour is written as JSON
		ContourFile string `yaml:"contourFile"`

		// OverlayFile is where the contour overlay image is written, empty to skip
		OverlayFile string `yaml:"overlayFile"`

		// CostPlotFile is where the learned cost map plot is written, empty to skip
		CostPlotFile string `yaml:"costPlotFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	costs := livewire.DefaultCostParams()
	cfg.LiveWire.FullNeighbors = true
	cfg.LiveWire.StepCost = costs.StepCost
	cfg.LiveWire.GradientWeight = costs.GradientWeight
	cfg.LiveWire.DynamicWeight = costs.DynamicWeight
	cfg.LiveWire.UseDynamicCostTransfer = false
	cfg.LiveWire.MakeOutputImage = false
	cfg.LiveWire.CalcAllDistances = false

	cfg.Image.Spacing = [2]float64{1.0, 1.0}
	cfg.Image.Origin = [2]float64{0, 0}

	cfg.Output.ContourFile = "contour.json"
	cfg.Output.OverlayFile = ""
	cfg.Output.CostPlotFile = ""
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks the values that would otherwise fail deep inside the engine.
func (c *Config) Validate() error {
	for i, s := range c.Image.Spacing {
		if !(s > 0) {
			return fmt.Errorf("image.spacing[%d] must be positive, got %g", i, s)
		}
	}
	return c.CostParams().Validate()
}

// CostParams returns the cost function weights.
func (c *Config) CostParams() livewire.CostParams {
	return livewire.CostParams{
		StepCost:       c.LiveWire.StepCost,
		GradientWeight: c.LiveWire.GradientWeight,
		DynamicWeight:  c.LiveWire.DynamicWeight,
	}
}

// FilterParams returns the engine configuration.
func (c *Config) FilterParams() *livewire.Params {
	return &livewire.Params{
		Cost:             c.CostParams(),
		FullNeighbors:    c.LiveWire.FullNeighbors,
		MakeOutputImage:  c.LiveWire.MakeOutputImage,
		CalcAllDistances: c.LiveWire.CalcAllDistances,
	}
}
