package physics

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/vmath"
)

// Scene owns every entity of the simulation. Slots may be nil; every reader
// skips them.
type Scene struct {
	Spheres []*Sphere
	Planes  []*Plane
	AABBs   []*AABB
}

func NewScene() *Scene {
	return &Scene{
		Spheres: make([]*Sphere, 0),
		Planes:  make([]*Plane, 0),
		AABBs:   make([]*AABB, 0),
	}
}

// AddSphere appends s and returns its index.
func (sc *Scene) AddSphere(s *Sphere) int {
	sc.Spheres = append(sc.Spheres, s)
	return len(sc.Spheres) - 1
}

func (sc *Scene) RemoveSphere(i int) error {
	if i < 0 || i >= len(sc.Spheres) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(sc.Spheres))
	}
	sc.Spheres = append(sc.Spheres[:i], sc.Spheres[i+1:]...)
	return nil
}

// RemoveSelected deletes the selected sphere, if any.
func (sc *Scene) RemoveSelected() bool {
	i, _ := sc.Selected()
	if i < 0 {
		return false
	}
	return sc.RemoveSphere(i) == nil
}

func (sc *Scene) ClearSpheres() {
	clear(sc.Spheres)
	sc.Spheres = sc.Spheres[:0]
}

func (sc *Scene) AddPlane(p *Plane) {
	sc.Planes = append(sc.Planes, p)
}

func (sc *Scene) AddWalls(walls ...*AABB) {
	sc.AABBs = append(sc.AABBs, walls...)
}

func (sc *Scene) ClearWalls() {
	clear(sc.AABBs)
	sc.AABBs = sc.AABBs[:0]
}

func (sc *Scene) HasWalls() bool { return len(sc.AABBs) > 0 }

// Len counts live spheres.
func (sc *Scene) Len() int {
	n := 0
	for _, s := range sc.Spheres {
		if s != nil {
			n++
		}
	}
	return n
}

// Selected returns the first selected sphere, or -1 and nil.
func (sc *Scene) Selected() (int, *Sphere) {
	for i, s := range sc.Spheres {
		if s != nil && s.Selected {
			return i, s
		}
	}
	return -1, nil
}

// Select marks sphere i as the only selected one. A negative i clears the
// selection.
func (sc *Scene) Select(i int) error {
	if i >= len(sc.Spheres) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(sc.Spheres))
	}
	for j, s := range sc.Spheres {
		if s != nil {
			s.Selected = j == i
		}
	}
	return nil
}

// SelectNext cycles the selection through live spheres and returns the new
// index, or -1 when the scene has none.
func (sc *Scene) SelectNext() int {
	n := len(sc.Spheres)
	cur, _ := sc.Selected()
	for step := 1; step <= n; step++ {
		i := (cur + step) % n
		if i < 0 {
			i += n
		}
		if sc.Spheres[i] != nil {
			_ = sc.Select(i)
			return i
		}
	}
	return -1
}

// Pick selects the first sphere containing p and returns its index. A miss
// keeps the current selection.
func (sc *Scene) Pick(p vmath.Vec3) int {
	return sc.PickAcross(p, -1, PickSlack)
}

// PickAcross is Pick in a flat view: the coordinate along axis (0=x, 1=y,
// 2=z) is ignored. A negative axis picks in full 3D. slack widens the
// squared radius, for callers whose point is only known to a cell.
func (sc *Scene) PickAcross(p vmath.Vec3, axis int, slack float64) int {
	for i, s := range sc.Spheres {
		if s != nil && s.ContainsAcross(p, axis, slack) {
			_ = sc.Select(i)
			return i
		}
	}
	return -1
}

func (sc *Scene) ResetAll() {
	for _, s := range sc.Spheres {
		if s != nil {
			s.Reset()
		}
	}
}
