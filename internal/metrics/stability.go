package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/physics"
)

// Containment is the fraction of samples in which every sphere stayed inside
// a horizontal bound and above the floor. A drop below one means something
// tunneled out.
type Containment struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewContainment(bound float64) *Containment {
	return &Containment{
		name:  "containment",
		bound: bound,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(scene *physics.Scene, t float64) {
	c.samples++
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		p := s.Position
		if math.Abs(p.X()) > c.bound || math.Abs(p.Z()) > c.bound || p.Y() < 0 {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
