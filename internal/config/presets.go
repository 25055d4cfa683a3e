package config

var Presets = map[string]map[string]*Config{
	"interval": {
		"static": {
			Domain: DomainConfig{Kind: "interval", XMin: 0, XMax: 1},
			Alpha:  1.5, MeshType: "static", Resolution: []int{102},
			NumAnchors: 2, BatchSize: 102, NTest: 102,
			Net:   NetConfig{Layers: []int{1, 20, 20, 20, 1}, Activation: "tanh"},
			Train: TrainConfig{Epochs: 2000, LR: 1e-3, Seed: 42},
		},
		"dynamic": {
			Domain: DomainConfig{Kind: "interval", XMin: 0, XMax: 1},
			Alpha:  1.8, MeshType: "dynamic", Resolution: []int{100},
			NumAnchors: 2, BatchSize: 18, NTest: 34,
			Net:   NetConfig{Layers: []int{1, 20, 20, 20, 1}, Activation: "tanh"},
			Train: TrainConfig{Epochs: 2000, LR: 1e-3, Seed: 42},
		},
		"trainable-alpha": {
			Domain: DomainConfig{Kind: "interval", XMin: 0, XMax: 1},
			Alpha:  1.2, TrainableAlpha: true, MeshType: "static", Resolution: []int{52},
			NumAnchors: 2, BatchSize: 52, NTest: 52,
			Net:   NetConfig{Layers: []int{1, 20, 20, 1}, Activation: "tanh"},
			Train: TrainConfig{Epochs: 1000, LR: 1e-3, AlphaLR: 5e-3, Seed: 42},
		},
	},
	"disk": {
		"dynamic": {
			Domain: DomainConfig{Kind: "disk", Center: []float64{0, 0}, Radius: 1},
			Alpha:  1.8, MeshType: "dynamic", Resolution: []int{8, 100},
			NumAnchors: 10, BatchSize: 60, NTest: 60,
			Net:   NetConfig{Layers: []int{2, 32, 32, 1}, Activation: "tanh"},
			Train: TrainConfig{Epochs: 1500, LR: 1e-3, Seed: 42},
		},
	},
	"ball": {
		"dynamic": {
			Domain: DomainConfig{Kind: "ball", Center: []float64{0, 0, 0}, Radius: 1},
			Alpha:  1.6, MeshType: "dynamic", Resolution: []int{6, 6, 60},
			NumAnchors: 20, BatchSize: 70, NTest: 70,
			Net:   NetConfig{Layers: []int{3, 32, 32, 1}, Activation: "tanh"},
			Train: TrainConfig{Epochs: 1500, LR: 1e-3, Seed: 42},
		},
	},
}

func GetPreset(domain, name string) *Config {
	group, ok := Presets[domain]
	if !ok {
		return nil
	}
	return group[name]
}

func ListPresets(domain string) []string {
	group, ok := Presets[domain]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
