package metrics

import (
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

// PeakSpeed is the highest sphere speed seen.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(scene *physics.Scene, t float64) {
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		if v := s.Velocity.Len(); v > p.peak {
			p.peak = v
		}
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// Momentum is the magnitude of the total linear momentum at the last sample.
type Momentum struct {
	name string
	last float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(scene *physics.Scene, t float64) {
	sum := vmath.Zero()
	for _, s := range scene.Spheres {
		if s != nil {
			sum = sum.Add(s.Momentum())
		}
	}
	m.last = sum.Len()
}

func (m *Momentum) Value() float64 { return m.last }

func (m *Momentum) Reset() { m.last = 0 }
