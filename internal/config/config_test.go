package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Domain.Kind != "interval" {
		t.Errorf("expected interval domain, got %s", cfg.Domain.Kind)
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 2 {
		t.Errorf("alpha out of range: %g", cfg.Alpha)
	}
	if cfg.BatchSize != cfg.Resolution[0]-2+cfg.NumAnchors {
		t.Errorf("batch size %d does not match resolution %v", cfg.BatchSize, cfg.Resolution)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"bad domain", func(c *Config) { c.Domain.Kind = "torus" }, false},
		{"bad mesh", func(c *Config) { c.MeshType = "adaptive" }, false},
		{"alpha one", func(c *Config) { c.Alpha = 1 }, false},
		{"alpha large", func(c *Config) { c.Alpha = 2.5 }, false},
		{"empty resolution", func(c *Config) { c.Resolution = nil }, false},
		{"bad precision", func(c *Config) { c.Precision = "float16" }, false},
		{"short net", func(c *Config) { c.Net.Layers = []int{1} }, false},
		{"dynamic", func(c *Config) { c.MeshType = "dynamic" }, true},
		{"trainable alpha dynamic", func(c *Config) {
			c.MeshType = "dynamic"
			c.TrainableAlpha = true
		}, false},
		{"trainable alpha static", func(c *Config) { c.TrainableAlpha = true }, true},
		{"static batch mismatch", func(c *Config) { c.BatchSize++ }, false},
		{"static test size mismatch", func(c *Config) { c.NTest-- }, false},
		{"dynamic batch free", func(c *Config) {
			c.MeshType = "dynamic"
			c.BatchSize = 18
			c.NTest = 34
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Alpha = 1.75
	cfg.MeshType = "dynamic"
	cfg.Domain = DomainConfig{Kind: "disk", Center: []float64{0, 0}, Radius: 2}
	cfg.Resolution = []int{8, 100}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Alpha != 1.75 || loaded.MeshType != "dynamic" {
		t.Errorf("loaded %+v", loaded)
	}
	if loaded.Domain.Kind != "disk" || loaded.Domain.Radius != 2 {
		t.Errorf("domain lost: %+v", loaded.Domain)
	}
	if len(loaded.Resolution) != 2 || loaded.Resolution[1] != 100 {
		t.Errorf("resolution lost: %v", loaded.Resolution)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("interval", "static")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.MeshType != "static" {
		t.Errorf("expected static mesh, got %s", cfg.MeshType)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("interval", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "static"); cfg != nil {
		t.Error("expected nil for nonexistent domain")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("interval"); len(presets) == 0 {
		t.Error("expected presets for interval")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent domain")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for domain, group := range Presets {
		for name, cfg := range group {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", domain, name, err)
			}
		}
	}
}
