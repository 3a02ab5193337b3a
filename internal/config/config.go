package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

const (
	DefaultFPS       = 60
	DefaultRenderFPS = 30
	DefaultDuration  = 10.0
	DefaultSeed      = 1
	DefaultRadius    = 0.2
	DefaultMass      = 1.0

	DefaultImpulsePower = 10.0
	DefaultImpulseDecay = 2.0
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Vec is a yaml-friendly [x, y, z] triple.
type Vec [3]float64

func (v Vec) Vec3() vmath.Vec3 { return vmath.New(v[0], v[1], v[2]) }

type Config struct {
	FPS       int            `yaml:"fps"`
	RenderFPS int            `yaml:"render_fps"`
	Duration  float64        `yaml:"duration"`
	Steps     int            `yaml:"steps"`
	Seed      int64          `yaml:"seed"`
	Physics   physics.Tuning `yaml:"physics"`
	Engine    EngineConfig   `yaml:"engine"`
	Impulse   ImpulseConfig  `yaml:"impulse"`
	Scene     SceneConfig    `yaml:"scene"`
}

// ImpulseConfig shapes the force the interactive push keys add.
type ImpulseConfig struct {
	Power float64 `yaml:"power"`
	Decay float64 `yaml:"decay"`
}

type EngineConfig struct {
	StopPolls       int `yaml:"stop_polls"`
	StopPollMs      int `yaml:"stop_poll_ms"`
	MaxFrameDeltaMs int `yaml:"max_frame_delta_ms"`
}

type SceneConfig struct {
	Floor    bool           `yaml:"floor"`
	Walls    bool           `yaml:"walls"`
	Generate bool           `yaml:"generate"`
	Spheres  []SphereConfig `yaml:"spheres"`

	// Select picks the ball containing this point once the scene is built.
	Select *Vec `yaml:"select,omitempty,flow"`
}

// SphereConfig describes one ball. A nil Restitution means the default; zero
// is a valid, perfectly inelastic value.
type SphereConfig struct {
	Position    Vec      `yaml:"position,flow"`
	Velocity    Vec      `yaml:"velocity,flow"`
	Radius      float64  `yaml:"radius"`
	Mass        float64  `yaml:"mass"`
	Restitution *float64 `yaml:"restitution,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		FPS:       DefaultFPS,
		RenderFPS: DefaultRenderFPS,
		Duration:  DefaultDuration,
		Seed:      DefaultSeed,
		Physics:   physics.DefaultTuning(),
		Engine: EngineConfig{
			StopPolls:       engine.DefaultStopPolls,
			StopPollMs:      int(engine.DefaultStopPollInterval / time.Millisecond),
			MaxFrameDeltaMs: int(engine.DefaultMaxFrameDelta / time.Millisecond),
		},
		Impulse: ImpulseConfig{Power: DefaultImpulsePower, Decay: DefaultImpulseDecay},
		Scene: SceneConfig{
			Floor: true,
			Spheres: []SphereConfig{
				{Position: Vec{0, 10, 0}, Radius: DefaultRadius, Mass: DefaultMass},
			},
		},
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

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	case c.RenderFPS <= 0:
		return fmt.Errorf("%w: render_fps must be positive, got %d", ErrInvalidConfig, c.RenderFPS)
	case c.Duration < 0 || c.Steps < 0:
		return fmt.Errorf("%w: duration and steps must not be negative", ErrInvalidConfig)
	case c.Physics.Gravity < 0:
		return fmt.Errorf("%w: gravity must not be negative, got %g", ErrInvalidConfig, c.Physics.Gravity)
	case c.Physics.Dampening < 0 || c.Physics.Dampening > 1:
		return fmt.Errorf("%w: dampening must be in [0,1], got %g", ErrInvalidConfig, c.Physics.Dampening)
	case c.Impulse.Power < 0 || c.Impulse.Decay < 0:
		return fmt.Errorf("%w: impulse power and decay must not be negative", ErrInvalidConfig)
	}

	for i, s := range c.Scene.Spheres {
		if s.Radius < 0 || s.Mass < 0 {
			return fmt.Errorf("%w: sphere %d has negative radius or mass", ErrInvalidConfig, i)
		}
		if r := s.Restitution; r != nil && (*r < 0 || *r > 1) {
			return fmt.Errorf("%w: sphere %d restitution %g outside [0,1]", ErrInvalidConfig, i, *r)
		}
	}
	return nil
}

// LoopConfig converts the loop settings for engine.New.
func (c *Config) LoopConfig() engine.Config {
	return engine.Config{
		FPS:              c.FPS,
		StopPolls:        c.Engine.StopPolls,
		StopPollInterval: time.Duration(c.Engine.StopPollMs) * time.Millisecond,
		MaxFrameDelta:    time.Duration(c.Engine.MaxFrameDeltaMs) * time.Millisecond,
	}
}

// TotalSteps returns the number of fixed ticks a headless run performs: Steps
// when set, otherwise Duration at FPS.
func (c *Config) TotalSteps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return int(c.Duration*float64(c.FPS) + 0.5)
}

// BuildScene constructs the physics scene. rng feeds ball generation only.
func (c *Config) BuildScene(rng *rand.Rand) (*physics.Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sc := physics.NewScene()
	if c.Scene.Floor {
		floor, err := physics.Floor()
		if err != nil {
			return nil, err
		}
		sc.AddPlane(floor)
	}
	if c.Scene.Walls {
		walls, err := physics.StandardWalls()
		if err != nil {
			return nil, err
		}
		sc.AddWalls(walls...)
	}

	for i, s := range c.Scene.Spheres {
		sphere, err := c.newSphere(s)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		sc.AddSphere(sphere)
	}

	if c.Scene.Generate {
		if rng == nil {
			rng = rand.New(rand.NewSource(c.Seed))
		}
		for _, s := range physics.GenerateBalls(rng, c.Physics) {
			sc.AddSphere(s)
		}
	}

	if p := c.Scene.Select; p != nil && sc.Pick(p.Vec3()) < 0 {
		return nil, fmt.Errorf("%w: no ball at select point %v", ErrInvalidConfig, *p)
	}
	return sc, nil
}

func (c *Config) newSphere(s SphereConfig) (*physics.Sphere, error) {
	radius, mass := s.Radius, s.Mass
	if radius == 0 {
		radius = DefaultRadius
	}
	if mass == 0 {
		mass = DefaultMass
	}
	opts := []physics.SphereOption{
		physics.WithVelocity(s.Velocity.Vec3()),
		physics.WithTuning(c.Physics),
	}
	if s.Restitution != nil {
		opts = append(opts, physics.WithRestitution(*s.Restitution))
	}
	return physics.NewSphere(s.Position.Vec3(), radius, mass, opts...)
}
