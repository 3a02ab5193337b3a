package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ballsim/internal/vmath"
)

// Plane is a static quad given by four corners in winding order. Its normal
// (b-a)×(d-a) points at the side spheres collide against.
type Plane struct {
	A, B, C, D vmath.Vec3
	Normal     vmath.Vec3
	Color      Color
}

// NewPlane validates the corners and computes the unit normal once.
func NewPlane(a, b, c, d vmath.Vec3, color Color) (*Plane, error) {
	ab := b.Sub(a)
	ad := d.Sub(a)
	n := ab.Cross(ad)

	scale := math.Max(ab.Len(), ad.Len())
	if scale == 0 || n.Len() <= geometryTolerance*scale*scale {
		return nil, fmt.Errorf("%w: corners %v %v %v %v", ErrDegenerateGeometry, a, b, c, d)
	}
	n.Normalize()

	off := math.Abs(c.Sub(a).Dot(n))
	if off > coplanarTolerance*math.Max(1, c.Sub(a).Len()) {
		return nil, fmt.Errorf("%w: corner c is %g off the plane", ErrNotCoplanar, off)
	}

	return &Plane{A: a, B: b, C: c, D: d, Normal: n, Color: color}, nil
}

// SignedDistance is positive on the normal side.
func (p *Plane) SignedDistance(pt vmath.Vec3) float64 {
	return pt.Sub(p.A).Dot(p.Normal)
}

// Project drops pt perpendicularly onto the plane.
func (p *Plane) Project(pt vmath.Vec3) vmath.Vec3 {
	return pt.Sub(p.Normal.Scale(p.SignedDistance(pt)))
}

func (p *Plane) Corners() [4]vmath.Vec3 {
	return [4]vmath.Vec3{p.A, p.B, p.C, p.D}
}

// AABB is an axis-aligned wall: plane collision limited to the rectangle
// spanned by its corners.
type AABB struct {
	Plane
	Min, Max vmath.Vec3
}

func NewAABB(a, b, c, d vmath.Vec3, color Color) (*AABB, error) {
	p, err := NewPlane(a, b, c, d, color)
	if err != nil {
		return nil, err
	}
	return &AABB{
		Plane: *p,
		Min:   vmath.Min(vmath.Min(a, b), vmath.Min(c, d)),
		Max:   vmath.Max(vmath.Max(a, b), vmath.Max(c, d)),
	}, nil
}

// Within reports whether pt lies inside the extents, allowing round-off.
func (box *AABB) Within(pt vmath.Vec3) bool {
	for i := 0; i < 3; i++ {
		if pt[i] < box.Min[i]-extentSlack || pt[i] > box.Max[i]+extentSlack {
			return false
		}
	}
	return true
}
