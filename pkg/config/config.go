// Package config provides configuration loading and management for
// emaugment. It handles loading augmentation parameters from YAML
// files and provides defaults matching the standard EM training setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"emaugment/pkg/augment"
)

// Config represents the augmentation configuration loaded from YAML.
type Config struct {
	// Seed initializes the random stream. Zero means the caller
	// should derive a seed (e.g. from the clock or a worker index).
	Seed uint64 `yaml:"seed"`

	// Blur configures the out-of-focus section augmentation.
	Blur struct {
		// MaxSections is the inclusive upper bound on the number of
		// z-sections blurred per example.
		MaxSections int `yaml:"maxSections"`

		// SigmaMax is the upper bound on the Gaussian blur width.
		SigmaMax float64 `yaml:"sigmaMax"`

		// Mode is one of "full", "partial" or "mix".
		Mode string `yaml:"mode"`

		// SkipRatio is the probability of skipping the augmentation
		// for a given example.
		SkipRatio float64 `yaml:"skipRatio"`
	} `yaml:"blur"`

	// Greyscale configures the contrast/brightness/gamma augmentation.
	Greyscale struct {
		// Mode is one of "2D", "3D" or "mix".
		Mode string `yaml:"mode"`

		// SkipRatio is the probability of skipping the augmentation
		// for a given example.
		SkipRatio float64 `yaml:"skipRatio"`
	} `yaml:"greyscale"`

	// Flip configures the random flip augmentation.
	Flip struct {
		// Enabled toggles random flips on or off.
		Enabled bool `yaml:"enabled"`
	} `yaml:"flip"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Blur.MaxSections = 1
	cfg.Blur.SigmaMax = 5.0
	cfg.Blur.Mode = "full"
	cfg.Blur.SkipRatio = 0.3

	cfg.Greyscale.Mode = "mix"
	cfg.Greyscale.SkipRatio = 0.3

	cfg.Flip.Enabled = true

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
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

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
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

// Augmentors constructs the configured augmentors, drawing randomness
// from the given stream. Parameter validation happens here, in the
// augmentor constructors; an invalid mode or ratio fails immediately.
func (c *Config) Augmentors(rng augment.Rand) ([]augment.Augmentor, error) {
	blurMode, err := augment.ParseBlurMode(c.Blur.Mode)
	if err != nil {
		return nil, err
	}
	blur, err := augment.NewSectionBlur(c.Blur.MaxSections, c.Blur.SigmaMax, blurMode, c.Blur.SkipRatio, rng)
	if err != nil {
		return nil, err
	}

	greyMode, err := augment.ParseGreyMode(c.Greyscale.Mode)
	if err != nil {
		return nil, err
	}
	grey, err := augment.NewGreyscale(greyMode, c.Greyscale.SkipRatio, rng)
	if err != nil {
		return nil, err
	}

	augs := []augment.Augmentor{blur, grey}
	if c.Flip.Enabled {
		augs = append(augs, augment.NewFlip(rng))
	}
	return augs, nil
}
