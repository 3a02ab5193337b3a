package metrics

import (
	"sort"

	"github.com/san-kum/ballsim/internal/physics"
)

// Metric accumulates one scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(scene *physics.Scene, t float64)
	Value() float64
	Reset()
}

// Set fans each tick out to a group of metrics. It satisfies
// engine.Observer.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Standard is the metric group recorded for every run.
func Standard(bound float64) *Set {
	return NewSet(
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewPeakSpeed(),
		NewMomentum(),
		NewContainment(bound),
	)
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Set) OnTick(scene *physics.Scene, simTime float64) {
	for _, m := range s.metrics {
		m.Observe(scene, simTime)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Values returns every metric's current value keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
