package vmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3-D vector. All methods return new values except Normalize.
type Vec3 mgl64.Vec3

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func Zero() Vec3 { return Vec3{} }

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3(mgl64.Vec3(v).Add(mgl64.Vec3(o))) }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3(mgl64.Vec3(v).Sub(mgl64.Vec3(o))) }
func (v Vec3) Neg() Vec3            { return Vec3{-v[0], -v[1], -v[2]} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3(mgl64.Vec3(v).Mul(s)) }

// Div divides every component by s. Dividing by zero yields Inf/NaN
// components; callers must guard.
func (v Vec3) Div(s float64) Vec3 { return Vec3{v[0] / s, v[1] / s, v[2] / s} }

func (v Vec3) Dot(o Vec3) float64      { return mgl64.Vec3(v).Dot(mgl64.Vec3(o)) }
func (v Vec3) Cross(o Vec3) Vec3       { return Vec3(mgl64.Vec3(v).Cross(mgl64.Vec3(o))) }
func (v Vec3) LenSqr() float64         { return mgl64.Vec3(v).LenSqr() }
func (v Vec3) Len() float64            { return mgl64.Vec3(v).Len() }
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }
func (v Vec3) IsZero() bool            { return v[0] == 0 && v[1] == 0 && v[2] == 0 }

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}

// Normalize scales v to unit length in place. A zero vector is left as is.
func (v *Vec3) Normalize() {
	l := v.Len()
	if l > 0 {
		v[0] /= l
		v[1] /= l
		v[2] /= l
	}
}

// Normalized returns a unit-length copy of v, or v itself when it is zero.
func (v Vec3) Normalized() Vec3 {
	v.Normalize()
	return v
}

func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v[0]-o[0]) <= eps && math.Abs(v[1]-o[1]) <= eps && math.Abs(v[2]-o[2]) <= eps
}

// IsValid reports whether no component is NaN or Inf.
func (v Vec3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Min and Max are component-wise.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}
