package physics

import (
	"math/rand"

	"github.com/san-kum/ballsim/internal/vmath"
)

const (
	arenaHalf  = 30.0
	wallHeight = 15.0
)

// Floor is the 60x60 ground quad at y=0, normal +Y.
func Floor() (*Plane, error) {
	return NewPlane(
		vmath.New(-arenaHalf, 0, arenaHalf),
		vmath.New(arenaHalf, 0, arenaHalf),
		vmath.New(arenaHalf, 0, -arenaHalf),
		vmath.New(-arenaHalf, 0, -arenaHalf),
		FloorColor,
	)
}

// StandardWalls returns the left, right, back and front walls around the
// floor, each facing inward.
func StandardWalls() ([]*AABB, error) {
	h, w := wallHeight, arenaHalf
	quads := [][4]vmath.Vec3{
		{vmath.New(-w, 0, w), vmath.New(-w, 0, -w), vmath.New(-w, h, -w), vmath.New(-w, h, w)},
		{vmath.New(w, 0, w), vmath.New(w, h, w), vmath.New(w, h, -w), vmath.New(w, 0, -w)},
		{vmath.New(w, 0, -w), vmath.New(w, h, -w), vmath.New(-w, h, -w), vmath.New(-w, 0, -w)},
		{vmath.New(-w, 0, w), vmath.New(-w, h, w), vmath.New(w, h, w), vmath.New(w, 0, w)},
	}

	walls := make([]*AABB, 0, len(quads))
	for _, q := range quads {
		box, err := NewAABB(q[0], q[1], q[2], q[3], WallColor)
		if err != nil {
			return nil, err
		}
		walls = append(walls, box)
	}
	return walls, nil
}

// GenerateBalls fills a 20x4x20 grid above the floor with randomly weighted
// balls flying in random directions.
func GenerateBalls(rng *rand.Rand, t Tuning) []*Sphere {
	balls := make([]*Sphere, 0, 20*4*20)
	for ix := 0; ix < 20; ix++ {
		for iy := 0; iy < 4; iy++ {
			for iz := 0; iz < 20; iz++ {
				x := -5 + 0.5*float64(ix)
				y := 12 + float64(iy)
				z := -5 + 0.5*float64(iz)

				mass := 0.4 + float64(rng.Intn(600))/1000
				restitution := 0.55 + float64(rng.Intn(400))/1000
				v := vmath.New(
					-10+float64(rng.Intn(2000))/100,
					-10+float64(rng.Intn(1000))/100,
					-10+float64(rng.Intn(2000))/100,
				)

				s, err := NewSphere(vmath.New(x, y, z), DefaultSpawnRadius, mass,
					WithRestitution(restitution), WithVelocity(v), WithTuning(t))
				if err != nil {
					continue
				}
				balls = append(balls, s)
			}
		}
	}
	return balls
}

// CanSpawnAt reports whether p keeps SpawnClearance from every sphere.
func CanSpawnAt(sc *Scene, p vmath.Vec3) bool {
	for _, s := range sc.Spheres {
		if s == nil {
			continue
		}
		if s.Position.Sub(p).LenSqr() <= s.Radius*s.Radius+SpawnClearance*SpawnClearance+PickSlack {
			return false
		}
	}
	return true
}

// SpawnAt adds a sphere at p, copying the selected sphere's radius, mass,
// restitution and rest velocity when there is one. It returns nil when p is
// crowded.
func SpawnAt(sc *Scene, p vmath.Vec3, t Tuning) (*Sphere, error) {
	if !CanSpawnAt(sc, p) {
		return nil, nil
	}

	var (
		s   *Sphere
		err error
	)
	if _, sel := sc.Selected(); sel != nil {
		s, err = NewSphere(p, sel.Radius, sel.Mass,
			WithRestitution(sel.Restitution), WithVelocity(sel.OriginalVelocity), WithTuning(t))
	} else {
		s, err = NewSphere(p, DefaultSpawnRadius, DefaultSpawnMass, WithTuning(t))
	}
	if err != nil {
		return nil, err
	}
	sc.AddSphere(s)
	return s, nil
}
