package main

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the annotation geometry service.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	ListenAddr      string `json:"listen_addr"`
	AnnotationsFile string `json:"annotations_file"`

	// Interactive-latency knobs for the balanced-slice search
	MaxBalancedSliceSamples int `json:"max_balanced_slice_samples"`
	DefaultSlicePrecision   int `json:"default_slice_precision"`

	// Viewport culling margin as a fraction of viewport size
	ViewportBuffer float64 `json:"viewport_buffer"`
}

// DefaultConfig returns a Config populated with standard defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:              ":8080",
		AnnotationsFile:         "annotations.geojson",
		MaxBalancedSliceSamples: 400,
		DefaultSlicePrecision:   3,
		ViewportBuffer:          0.2,
	}
}

// Validate clamps values to safe ranges
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.MaxBalancedSliceSamples < 20 {
		c.MaxBalancedSliceSamples = 20
	}
	if c.DefaultSlicePrecision <= 0 {
		c.DefaultSlicePrecision = 3
	}
	if c.ViewportBuffer < 0 {
		c.ViewportBuffer = 0.2
	}
	return nil
}

// LoadConfig reads configuration from a JSON file, falling back to defaults
// when the file does not exist
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
