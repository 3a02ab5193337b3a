package physics

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/vmath"
)

// Sphere is a point mass with a radius. Forces[0] is always gravity.
type Sphere struct {
	Position         vmath.Vec3
	OriginalPosition vmath.Vec3
	Velocity         vmath.Vec3
	OriginalVelocity vmath.Vec3

	Radius      float64
	Mass        float64
	Restitution float64

	Color         Color
	SelectedColor Color
	Selected      bool

	Forces    []Force
	Dampening float64
}

type SphereOption func(*sphereOptions)

type sphereOptions struct {
	restitution   float64
	velocity      vmath.Vec3
	color         Color
	selectedColor Color
	tuning        Tuning
}

func WithRestitution(r float64) SphereOption {
	return func(o *sphereOptions) { o.restitution = r }
}

func WithVelocity(v vmath.Vec3) SphereOption {
	return func(o *sphereOptions) { o.velocity = v }
}

func WithColor(c Color) SphereOption {
	return func(o *sphereOptions) { o.color = c }
}

func WithSelectedColor(c Color) SphereOption {
	return func(o *sphereOptions) { o.selectedColor = c }
}

// WithTuning sets both the gravity magnitude and the force dampening.
func WithTuning(t Tuning) SphereOption {
	return func(o *sphereOptions) { o.tuning = t }
}

func WithGravity(g float64) SphereOption {
	return func(o *sphereOptions) { o.tuning.Gravity = g }
}

func WithDampening(d float64) SphereOption {
	return func(o *sphereOptions) { o.tuning.Dampening = d }
}

// NewSphere creates a sphere at rest position pos with gravity as its only
// force.
func NewSphere(pos vmath.Vec3, radius, mass float64, opts ...SphereOption) (*Sphere, error) {
	o := sphereOptions{
		restitution:   DefaultRestitution,
		color:         DefaultSphereColor,
		selectedColor: DefaultSelectedColor,
		tuning:        DefaultTuning(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if radius <= 0 || mass <= 0 {
		return nil, fmt.Errorf("%w: radius=%g mass=%g", ErrInvalidSphere, radius, mass)
	}
	if o.restitution < 0 || o.restitution > 1 {
		return nil, fmt.Errorf("%w: restitution=%g", ErrInvalidSphere, o.restitution)
	}

	return &Sphere{
		Position:         pos,
		OriginalPosition: pos,
		Velocity:         o.velocity,
		OriginalVelocity: o.velocity,
		Radius:           radius,
		Mass:             mass,
		Restitution:      o.restitution,
		Color:            o.color,
		SelectedColor:    o.selectedColor,
		Forces:           []Force{gravityForce(o.tuning.Gravity)},
		Dampening:        o.tuning.Dampening,
	}, nil
}

// Update integrates accumulated forces over dt, then moves the sphere.
// Expired forces are removed in list order; gravity is never removed.
func (s *Sphere) Update(dt float64) {
	for i := 0; i < len(s.Forces); {
		f := &s.Forces[i]
		if i > 0 && f.Expired() {
			s.Forces = append(s.Forces[:i], s.Forces[i+1:]...)
			continue
		}

		k := 1.0
		if i > 0 {
			k = s.Dampening
		}
		s.Velocity = s.Velocity.Add(f.Direction.Scale(s.Mass * f.Magnitude * dt * k))
		f.Decay(dt)
		i++
	}
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
}

// Reset restores the rest position and velocity and drops every force but
// gravity.
func (s *Sphere) Reset() {
	s.Position = s.OriginalPosition
	s.Velocity = s.OriginalVelocity
	if len(s.Forces) > 1 {
		s.Forces = s.Forces[:1]
	}
}

// Collide resolves contacts against spheres after idx, then planes, then
// walls. Every contact found is resolved, in that order.
func (s *Sphere) Collide(scene *Scene, idx int) {
	for i := idx + 1; i < len(scene.Spheres); i++ {
		other := scene.Spheres[i]
		if other == nil || other == s {
			continue
		}
		if SphereSphere(s, other) {
			ResolveSphereSphere(s, other)
		}
	}

	for _, p := range scene.Planes {
		if p != nil && SpherePlane(s, p) {
			ResolveSpherePlane(s, p)
		}
	}

	for _, box := range scene.AABBs {
		if box != nil && SphereAABB(s, box) {
			ResolveSphereAABB(s, box)
		}
	}
}

// ApplyForce appends an external force to the active list.
func (s *Sphere) ApplyForce(f Force) {
	s.Forces = append(s.Forces, f)
}

// SetRestPosition changes the position restored by Reset, and the live
// position too when live is set. Y is clamped to at least the radius.
func (s *Sphere) SetRestPosition(p vmath.Vec3, live bool) {
	if p[1] < s.Radius {
		p[1] = s.Radius
	}
	s.OriginalPosition = p
	if live {
		s.Position = p
	}
}

func (s *Sphere) SetRestVelocity(v vmath.Vec3, live bool) {
	s.OriginalVelocity = v
	if live {
		s.Velocity = v
	}
}

// SetRadius, SetMass and SetRestitution edit the selected sphere's
// parameters, rejecting the values NewSphere would.
func (s *Sphere) SetRadius(r float64) error {
	if r <= 0 {
		return fmt.Errorf("%w: radius=%g", ErrInvalidSphere, r)
	}
	s.Radius = r
	return nil
}

func (s *Sphere) SetMass(m float64) error {
	if m <= 0 {
		return fmt.Errorf("%w: mass=%g", ErrInvalidSphere, m)
	}
	s.Mass = m
	return nil
}

func (s *Sphere) SetRestitution(r float64) error {
	if r < 0 || r > 1 {
		return fmt.Errorf("%w: restitution=%g", ErrInvalidSphere, r)
	}
	s.Restitution = r
	return nil
}

// Contains is the pick test: p within the radius, squared slack added.
func (s *Sphere) Contains(p vmath.Vec3, slack float64) bool {
	return s.Position.Sub(p).LenSqr() <= s.Radius*s.Radius+slack
}

// ContainsAcross is Contains with one axis ignored, for picking in a flat
// view that has no depth.
func (s *Sphere) ContainsAcross(p vmath.Vec3, axis int, slack float64) bool {
	d := s.Position.Sub(p)
	if axis >= 0 && axis < 3 {
		d[axis] = 0
	}
	return d.LenSqr() <= s.Radius*s.Radius+slack
}

func (s *Sphere) KineticEnergy() float64 {
	return 0.5 * s.Mass * s.Velocity.LenSqr()
}

func (s *Sphere) Momentum() vmath.Vec3 {
	return s.Velocity.Scale(s.Mass)
}

// DisplayColor is the color a renderer should use.
func (s *Sphere) DisplayColor() Color {
	if s.Selected {
		return s.SelectedColor
	}
	return s.Color
}

// Gravity returns the magnitude of the permanent gravity entry.
func (s *Sphere) Gravity() float64 {
	if len(s.Forces) == 0 {
		return 0
	}
	return s.Forces[0].Magnitude
}
