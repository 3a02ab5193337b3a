package viz

import (
	"math"

	"github.com/san-kum/ballsim/internal/vmath"
)

// Projection selects how world space is flattened onto the canvas.
type Projection int

const (
	Side  Projection = iota // x right, y up
	Top                     // x right, z down
	Orbit                   // perspective camera circling the origin
)

func (p Projection) String() string {
	switch p {
	case Side:
		return "side"
	case Top:
		return "top"
	case Orbit:
		return "orbit"
	}
	return "unknown"
}

// Next cycles Side -> Top -> Orbit -> Side.
func (p Projection) Next() Projection {
	return (p + 1) % 3
}

const (
	// DefaultExtent is the half-width of world space shown, just past the
	// walls at ±30.
	DefaultExtent = 32.0

	sideCeiling = 16.0
)

// Camera is the orbit view: yaw and pitch around the origin at a fixed
// distance.
type Camera struct {
	Target   vmath.Vec3
	Distance float64
	RotX     float64
	RotY     float64
	Zoom     float64
}

func NewCamera() *Camera {
	return &Camera{
		Target:   vmath.New(0, 5, 0),
		Distance: 80,
		RotX:     0.45,
		RotY:     0.6,
		Zoom:     1.0,
	}
}

func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) ResetView() {
	d := NewCamera()
	c.RotX, c.RotY, c.Zoom = d.RotX, d.RotY, d.Zoom
}

// RotatePoint moves p into camera space: yaw about Y, then pitch about X.
func (c *Camera) RotatePoint(p vmath.Vec3) vmath.Vec3 {
	p = p.Sub(c.Target)
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	x, z := p.X()*cy+p.Z()*sy, -p.X()*sy+p.Z()*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	y, z := p.Y()*cx-z*sx, p.Y()*sx+z*cx
	return vmath.New(x, y, z)
}

// Project converts world coordinates to screen coordinates of a sw x sh
// surface. It returns the depth along the view axis and whether the point is
// in front of the camera and on screen.
func (c *Camera) Project(p vmath.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	depth := c.Distance - rot.Z()
	if depth <= 0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / depth
	pScale := math.Min(float64(sw), float64(sh)) / (2 * DefaultExtent) * 1.4
	sx := int(rot.X()*scale*pScale) + sw/2
	sy := int(-rot.Y()*scale*pScale) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Viewport maps world space onto a canvas.
type Viewport struct {
	Projection Projection
	Camera     *Camera
	Extent     float64
	Width      int
	Height     int
}

func NewViewport(p Projection, cam *Camera, c *Canvas) Viewport {
	if cam == nil {
		cam = NewCamera()
	}
	return Viewport{
		Projection: p,
		Camera:     cam,
		Extent:     DefaultExtent,
		Width:      c.SubWidth(),
		Height:     c.SubHeight(),
	}
}

// Scale is sub-pixels per world unit for the flat projections. In Orbit it
// is the scale at the camera target.
func (v Viewport) Scale() float64 {
	w, h := float64(v.Width), float64(v.Height)
	switch v.Projection {
	case Side:
		return math.Min(w/(2*v.Extent), (h-2)/sideCeiling)
	case Top:
		return math.Min(w, h) / (2 * v.Extent)
	default:
		return math.Min(w, h) / (2 * DefaultExtent) * 1.4 * v.Camera.Zoom
	}
}

// Project returns the sub-pixel position of p and whether it is visible.
func (v Viewport) Project(p vmath.Vec3) (int, int, bool) {
	if v.Projection == Orbit {
		x, y, _, ok := v.Camera.Project(p, v.Width, v.Height)
		return x, y, ok
	}

	s := v.Scale()
	var x, y int
	switch v.Projection {
	case Side:
		x = int(math.Round(p.X()*s)) + v.Width/2
		y = v.Height - 2 - int(math.Round(p.Y()*s))
	case Top:
		x = int(math.Round(p.X()*s)) + v.Width/2
		y = int(math.Round(p.Z()*s)) + v.Height/2
	}
	return x, y, x >= 0 && x < v.Width && y >= 0 && y < v.Height
}

// Unproject inverts Project for the flat views. The flattened coordinate of
// the result is zero. Orbit has no inverse and reports false.
func (v Viewport) Unproject(x, y int) (vmath.Vec3, bool) {
	s := v.Scale()
	if s <= 0 {
		return vmath.Zero(), false
	}
	wx := float64(x-v.Width/2) / s
	switch v.Projection {
	case Side:
		return vmath.New(wx, float64(v.Height-2-y)/s, 0), true
	case Top:
		return vmath.New(wx, 0, float64(y-v.Height/2)/s), true
	}
	return vmath.Zero(), false
}
