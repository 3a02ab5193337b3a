package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
)

func TestApplyParam(t *testing.T) {
	base := config.GetPreset("collide")
	cfg := *base

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"gravity", 2}, {"dampening", 0.5}, {"fps", 119.6}, {"restitution", 0.25},
	} {
		if err := ApplyParam(&cfg, p.name, p.value); err != nil {
			t.Fatalf("%s: %v", p.name, err)
		}
	}

	if cfg.Physics.Gravity != 2 || cfg.Physics.Dampening != 0.5 || cfg.FPS != 120 {
		t.Errorf("unexpected tuning %+v fps=%d", cfg.Physics, cfg.FPS)
	}
	for i, s := range cfg.Scene.Spheres {
		if s.Restitution == nil || *s.Restitution != 0.25 {
			t.Errorf("sphere %d restitution not overridden", i)
		}
	}
	if *base.Scene.Spheres[0].Restitution == 0.25 {
		t.Error("restitution override leaked into the source config")
	}

	if err := ApplyParam(&cfg, "mass", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestGridSearch(t *testing.T) {
	base := config.GetPreset("drop")
	base.Steps = 60
	gravities := []float64{0.981, 5, 0}

	results, err := NewGridSearch([]string{"gravity"}, [][]float64{gravities}).
		Search(context.Background(), base, 1, "peak_speed")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if g := results[0].Params["gravity"]; g != 0 {
		t.Errorf("lowest peak speed should be without gravity, got gravity %v", g)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Metrics["peak_speed"] < results[i-1].Metrics["peak_speed"] {
			t.Errorf("results not sorted at %d", i)
		}
	}

	results, err = NewGridSearch([]string{"gravity"}, [][]float64{gravities}).
		Maximize().
		Search(context.Background(), base, 1, "peak_speed")
	if err != nil {
		t.Fatalf("maximize search failed: %v", err)
	}
	if g := results[0].Params["gravity"]; g != 5 {
		t.Errorf("highest peak speed should be the strongest gravity, got %v", g)
	}
}

func TestGridSearchCombinations(t *testing.T) {
	base := config.GetPreset("settle")
	base.Steps = 5

	results, err := NewGridSearch(
		[]string{"gravity", "fps"},
		[][]float64{{0.5, 1}, {30, 60, 120}},
	).Search(context.Background(), base, 1, "containment")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 6 {
		t.Errorf("expected 6 combinations, got %d", len(results))
	}
	for _, r := range results {
		if len(r.Params) != 2 {
			t.Errorf("result params %v", r.Params)
		}
	}
}

func TestGridSearchErrors(t *testing.T) {
	base := config.GetPreset("drop")
	base.Steps = 1
	ctx := context.Background()

	if _, err := NewGridSearch([]string{"gravity"}, nil).Search(ctx, base, 1, "peak_speed"); err == nil {
		t.Error("mismatched ranges accepted")
	}
	if _, err := NewGridSearch([]string{"spin"}, [][]float64{{1}}).Search(ctx, base, 1, "peak_speed"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := NewGridSearch([]string{"dampening"}, [][]float64{{2}}).Search(ctx, base, 1, "peak_speed"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewGridSearch([]string{"gravity"}, [][]float64{{1}}).Search(ctx, base, 1, "nope"); !errors.Is(err, ErrNoMetric) {
		t.Errorf("expected ErrNoMetric, got %v", err)
	}
}
