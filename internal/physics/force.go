package physics

import "github.com/san-kum/ballsim/internal/vmath"

// Force is a directional push whose magnitude decays exponentially.
type Force struct {
	Direction vmath.Vec3
	Magnitude float64
	DecayRate float64
}

// NewForce normalizes dir and clamps a negative decay rate to zero.
func NewForce(dir vmath.Vec3, magnitude, decayRate float64) Force {
	dir.Normalize()
	if decayRate < 0 {
		decayRate = 0
	}
	if magnitude < 0 {
		magnitude = 0
	}
	return Force{Direction: dir, Magnitude: magnitude, DecayRate: decayRate}
}

func gravityForce(g float64) Force {
	return NewForce(vmath.New(0, -1, 0), g, 0)
}

// Decay reduces the magnitude by Magnitude*DecayRate*dt, never below zero.
func (f *Force) Decay(dt float64) {
	if f.Magnitude <= 0 {
		return
	}
	f.Magnitude -= f.Magnitude * f.DecayRate * dt
	if f.Magnitude < 0 {
		f.Magnitude = 0
	}
}

func (f Force) Expired() bool { return f.Magnitude <= ExpiryThreshold }
