package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/physics"
)

// chunk is the number of ticks advanced between cancellation checks.
const chunk = 256

// Simulator runs a configuration headless to completion with the fixed step
// of engine.Advance.
type Simulator struct {
	cfg       *config.Config
	observers []engine.Observer
}

func New(cfg *config.Config) *Simulator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Simulator{cfg: cfg}
}

// AddObserver attaches o to every engine this simulator creates. Observers
// shared by an ensemble are called from several goroutines.
func (s *Simulator) AddObserver(o engine.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() *config.Config { return s.cfg }

// Run builds the scene with seed and advances it for cfg.TotalSteps ticks.
// A cancelled context stops the run between chunks and returns the partial
// result with the context error.
func (s *Simulator) Run(ctx context.Context, seed int64) (*Result, error) {
	cfg := *s.cfg
	cfg.Seed = seed

	scene, err := cfg.BuildScene(nil)
	if err != nil {
		return nil, fmt.Errorf("sim: seed %d: %w", seed, err)
	}

	eng := engine.New(scene, cfg.LoopConfig())
	defer eng.Close()

	set := metrics.Standard(ContainmentBound)
	eng.AddObserver(set)
	for _, o := range s.observers {
		eng.AddObserver(o)
	}

	result := &Result{Seed: seed}
	fill := func() {
		result.Ticks = eng.Ticks()
		result.SimTime = eng.SimTime()
		result.Metrics = set.Values()
		_ = eng.Mutate(func(sc *physics.Scene) error {
			result.Spheres = sc.Len()
			return nil
		})
	}

	for left := cfg.TotalSteps(); left > 0; left -= chunk {
		if err := ctx.Err(); err != nil {
			fill()
			return result, err
		}
		if err := eng.Advance(min(left, chunk)); err != nil {
			return nil, err
		}
	}

	fill()
	return result, nil
}
