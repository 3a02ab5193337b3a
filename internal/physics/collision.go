package physics

import "github.com/san-kum/ballsim/internal/vmath"

// SphereSphere reports whether the spheres touch or overlap.
func SphereSphere(a, b *Sphere) bool {
	r := a.Radius + b.Radius
	return a.Position.Sub(b.Position).LenSqr() <= r*r
}

// SpherePlane reports whether the center is within one radius of the plane
// or anywhere behind it.
func SpherePlane(s *Sphere, p *Plane) bool {
	return p.SignedDistance(s.Position) <= s.Radius
}

// SphereAABB is SpherePlane bounded to at most TunnelTolerance radii behind
// the wall, with the projected center inside the wall's extents.
func SphereAABB(s *Sphere, box *AABB) bool {
	dist := box.SignedDistance(s.Position)
	if dist > s.Radius || dist < -TunnelTolerance*s.Radius {
		return false
	}
	return box.Within(s.Position.Sub(box.Normal.Scale(dist)))
}

// ResolveSphereSphere applies a 1-D collision with restitution a.R*b.R along
// the line of centers, then splits any remaining overlap evenly.
func ResolveSphereSphere(a, b *Sphere) {
	axis := a.Position.Sub(b.Position)
	axis.Normalize()
	if axis.IsZero() {
		axis = vmath.New(0, 1, 0)
	}

	v1x := axis.Scale(axis.Dot(a.Velocity))
	v1y := a.Velocity.Sub(v1x)
	v2x := axis.Scale(axis.Dot(b.Velocity))
	v2y := b.Velocity.Sub(v2x)

	cor := a.Restitution * b.Restitution
	m12 := a.Mass + b.Mass
	mu := v1x.Scale(a.Mass).Add(v2x.Scale(b.Mass))

	a.Velocity = v1y.Add(mu.Add(v2x.Sub(v1x).Scale(b.Mass * cor)).Div(m12))
	b.Velocity = v2y.Add(mu.Add(v1x.Sub(v2x).Scale(a.Mass * cor)).Div(m12))

	sum := a.Radius + b.Radius
	dist := a.Position.Distance(b.Position)
	if dist < sum {
		half := (sum - dist) / 2
		a.Position = a.Position.Add(axis.Scale(half))
		b.Position = b.Position.Sub(axis.Scale(half))
	}
}

func ResolveSpherePlane(s *Sphere, p *Plane) {
	resolveSurface(s, p)
}

func ResolveSphereAABB(s *Sphere, box *AABB) {
	resolveSurface(s, &box.Plane)
}

// resolveSurface reflects the velocity about the normal scaled by
// (1+restitution) and pushes the sphere out by its penetration.
func resolveSurface(s *Sphere, p *Plane) {
	n := p.Normal
	s.Velocity = s.Velocity.Sub(n.Scale((1 + s.Restitution) * s.Velocity.Dot(n)))

	dist := p.SignedDistance(s.Position)
	if dist < s.Radius {
		s.Position = s.Position.Add(n.Scale(s.Radius - dist))
	}
}
