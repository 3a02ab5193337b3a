package sim

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sort"

	"github.com/san-kum/ballsim/internal/config"
)

// Params are the names GridSearch and ApplyParam understand.
var Params = []string{"dampening", "fps", "gravity", "restitution"}

// ApplyParam sets one named tuning value on cfg. restitution overrides every
// configured sphere.
func ApplyParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "gravity":
		cfg.Physics.Gravity = value
	case "dampening":
		cfg.Physics.Dampening = value
	case "fps":
		cfg.FPS = int(math.Round(value))
	case "restitution":
		spheres := make([]config.SphereConfig, len(cfg.Scene.Spheres))
		copy(spheres, cfg.Scene.Spheres)
		for i := range spheres {
			r := value
			spheres[i].Restitution = &r
		}
		cfg.Scene.Spheres = spheres
	default:
		return fmt.Errorf("%w: %q (known: %v)", ErrUnknownParam, name, Params)
	}
	return nil
}

// GridSearch evaluates every combination of parameter values and keeps the
// best value of one metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes the search keep the highest metric value instead of the
// lowest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search runs base with every combination applied. Results are returned for
// all combinations, best first.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, seed int64, metric string) ([]*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("sim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if err := ApplyParam(config.DefaultConfig(), name, 0); err != nil {
			return nil, err
		}
	}

	var results []*Result
	err := g.searchRecursive(ctx, 0, map[string]float64{}, base, seed, &results)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if _, ok := results[0].Metrics[metric]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoMetric, metric)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Metrics[metric], results[j].Metrics[metric]
		if g.maximize {
			return a > b
		}
		return a < b
	})
	return results, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	seed int64,
	results *[]*Result,
) error {
	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			if err := ApplyParam(&cfg, name, v); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("sim: params %v: %w", current, err)
		}

		result, err := New(&cfg).Run(ctx, seed)
		if err != nil {
			return err
		}
		result.Params = maps.Clone(current)
		*results = append(*results, result)
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, base, seed, results); err != nil {
			return err
		}
	}
	return nil
}
