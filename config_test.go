package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("missing config must not be an error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.ListenAddr != defaults.ListenAddr ||
		cfg.MaxBalancedSliceSamples != defaults.MaxBalancedSliceSamples {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"listen_addr": ":9090", "max_balanced_slice_samples": 100}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.ListenAddr)
	}
	if cfg.MaxBalancedSliceSamples != 100 {
		t.Fatalf("expected 100, got %d", cfg.MaxBalancedSliceSamples)
	}
	// Untouched fields keep their defaults
	if cfg.ViewportBuffer != 0.2 {
		t.Fatalf("expected default viewport buffer, got %v", cfg.ViewportBuffer)
	}
}

func TestConfigValidateClamps(t *testing.T) {
	cfg := &Config{
		MaxBalancedSliceSamples: 1,
		DefaultSlicePrecision:   -5,
		ViewportBuffer:          -1,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.MaxBalancedSliceSamples < 20 {
		t.Fatalf("sample cap not clamped: %d", cfg.MaxBalancedSliceSamples)
	}
	if cfg.DefaultSlicePrecision <= 0 {
		t.Fatalf("precision not clamped: %d", cfg.DefaultSlicePrecision)
	}
	if cfg.ViewportBuffer < 0 {
		t.Fatalf("buffer not clamped: %v", cfg.ViewportBuffer)
	}
	if cfg.ListenAddr == "" {
		t.Fatal("listen address not defaulted")
	}
}
