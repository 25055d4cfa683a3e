package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAlpha      = 1.5
	DefaultResolution = 52
	DefaultAnchors    = 2
	DefaultEpochs     = 2000
	DefaultLR         = 1e-3
)

type Config struct {
	Domain         DomainConfig `yaml:"domain"`
	Alpha          float64      `yaml:"alpha"`
	TrainableAlpha bool         `yaml:"trainable_alpha"`
	MeshType       string       `yaml:"meshtype"`
	Resolution     []int        `yaml:"resolution"`
	NumAnchors     int          `yaml:"nanchor"`
	BatchSize      int          `yaml:"batch_size"`
	NTest          int          `yaml:"ntest"`
	Net            NetConfig    `yaml:"net"`
	Train          TrainConfig  `yaml:"train"`
	// Precision controls how exported numbers are formatted
	// ("float32" or "float64"); computation is always double.
	Precision string `yaml:"precision"`
}

type DomainConfig struct {
	Kind   string    `yaml:"kind"` // interval, disk, ball
	XMin   float64   `yaml:"xmin"`
	XMax   float64   `yaml:"xmax"`
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
}

type NetConfig struct {
	Layers     []int  `yaml:"layers"`
	Activation string `yaml:"activation"`
}

type TrainConfig struct {
	Epochs  int     `yaml:"epochs"`
	LR      float64 `yaml:"lr"`
	AlphaLR float64 `yaml:"alpha_lr"`
	Seed    int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain:     DomainConfig{Kind: "interval", XMin: 0, XMax: 1},
		Alpha:      DefaultAlpha,
		MeshType:   "static",
		Resolution: []int{DefaultResolution},
		NumAnchors: DefaultAnchors,
		BatchSize:  DefaultResolution - 2 + DefaultAnchors,
		NTest:      DefaultResolution - 2 + DefaultAnchors,
		Net: NetConfig{
			Layers:     []int{1, 20, 20, 20, 1},
			Activation: "tanh",
		},
		Train: TrainConfig{
			Epochs: DefaultEpochs,
			LR:     DefaultLR,
			Seed:   42,
		},
		Precision: "float64",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate catches configuration mistakes before any operator is built.
func (c *Config) Validate() error {
	switch c.Domain.Kind {
	case "interval", "disk", "ball":
	default:
		return fmt.Errorf("config: unknown domain kind %q", c.Domain.Kind)
	}
	switch c.MeshType {
	case "static", "dynamic":
	default:
		return fmt.Errorf("config: unknown meshtype %q", c.MeshType)
	}
	if c.Alpha <= 0 || c.Alpha >= 2 || c.Alpha == 1 {
		return fmt.Errorf("config: alpha must lie in (0,2) excluding 1, got %g", c.Alpha)
	}
	if c.TrainableAlpha && c.MeshType != "static" {
		return fmt.Errorf("config: trainable alpha requires a static mesh")
	}
	if len(c.Resolution) == 0 {
		return fmt.Errorf("config: resolution is empty")
	}
	if c.MeshType == "static" {
		want := c.Resolution[0] - 2 + c.NumAnchors
		if c.BatchSize != want {
			return fmt.Errorf("config: static batch size must be %d for resolution %d, got %d", want, c.Resolution[0], c.BatchSize)
		}
		if c.NTest != want {
			return fmt.Errorf("config: static test size must be %d for resolution %d, got %d", want, c.Resolution[0], c.NTest)
		}
	}
	switch c.Precision {
	case "", "float32", "float64":
	default:
		return fmt.Errorf("config: unknown precision %q", c.Precision)
	}
	if len(c.Net.Layers) < 2 {
		return fmt.Errorf("config: net needs at least input and output layers")
	}
	return nil
}
