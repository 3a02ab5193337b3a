package physics

const (
	// DefaultGravity is the tuned gravitational constant of the scene, not 9.81.
	DefaultGravity = 0.981

	// DefaultDampening scales every non-gravity force during integration.
	DefaultDampening = 0.8

	DefaultRestitution = 0.8
	DefaultDecay       = 0.2

	// ExpiryThreshold is the magnitude at or below which a force is dropped.
	ExpiryThreshold = 0.01

	// TunnelTolerance is how many radii a sphere may sit behind a wall and
	// still be pushed back out.
	TunnelTolerance = 10.0

	// PickSlack widens the squared radius used when picking a sphere.
	PickSlack = 0.02

	// SpawnClearance is the radius kept free around a newly spawned sphere.
	SpawnClearance = 0.5

	DefaultSpawnRadius = 0.2
	DefaultSpawnMass   = 0.5

	extentSlack       = 1e-6
	geometryTolerance = 1e-9
	coplanarTolerance = 1e-6
)

// Tuning holds the non-physical constants of the integration model.
type Tuning struct {
	Gravity   float64 `yaml:"gravity"`
	Dampening float64 `yaml:"dampening"`
}

func DefaultTuning() Tuning {
	return Tuning{Gravity: DefaultGravity, Dampening: DefaultDampening}
}
