package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/physics"
)

// KineticEnergy is the mean total kinetic energy over all samples.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(scene *physics.Scene, t float64) {
	var ke float64
	for _, s := range scene.Spheres {
		if s != nil {
			ke += s.KineticEnergy()
		}
	}
	e.totalEnergy += ke
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of MechanicalEnergy from the
// first sample. Restitution below one makes it grow.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(scene *physics.Scene, t float64) {
	energy := MechanicalEnergy(scene)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MechanicalEnergy sums kinetic and gravitational potential energy, with
// y=0 as the reference height. Sphere.Update scales every force by the mass,
// so gravity accelerates a sphere at m*g and its potential is m*m*g*y.
func MechanicalEnergy(scene *physics.Scene) float64 {
	var total float64
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		total += s.KineticEnergy() + s.Mass*s.Mass*s.Gravity()*s.Position.Y()
	}
	return total
}
