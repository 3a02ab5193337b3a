package config

import "sort"

func restitution(r float64) *float64 { return &r }

// Presets are complete configurations keyed by name.
var Presets = map[string]*Config{
	"drop": DefaultConfig(),
	"collide": withScene(SceneConfig{
		Floor: true,
		Spheres: []SphereConfig{
			{Position: Vec{-4, 1, 0}, Velocity: Vec{6, 0, 0}, Radius: 0.5, Mass: 1, Restitution: restitution(1)},
			{Position: Vec{4, 1, 0}, Velocity: Vec{-6, 0, 0}, Radius: 0.5, Mass: 2, Restitution: restitution(0.9)},
		},
	}),
	"rain": withScene(SceneConfig{Floor: true, Walls: true, Generate: true}),
	"boxed": withScene(SceneConfig{
		Floor: true,
		Walls: true,
		Spheres: []SphereConfig{
			{Position: Vec{0, 2, 0}, Velocity: Vec{25, 4, 10}, Radius: 0.4, Mass: 1},
			{Position: Vec{-10, 3, 5}, Velocity: Vec{-20, 0, 18}, Radius: 0.3, Mass: 0.6},
			{Position: Vec{12, 1, -8}, Velocity: Vec{8, 6, -22}, Radius: 0.5, Mass: 1.5},
			{Position: Vec{5, 4, 12}, Velocity: Vec{-15, 2, -5}, Radius: 0.2, Mass: 0.5},
		},
	}),
	"settle": withScene(SceneConfig{
		Floor: true,
		Spheres: []SphereConfig{
			{Position: Vec{0, DefaultRadius, 0}, Radius: DefaultRadius, Mass: DefaultMass, Restitution: restitution(0)},
		},
	}),
}

func withScene(sc SceneConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scene = sc
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Scene.Spheres = append([]SphereConfig(nil), p.Scene.Spheres...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
