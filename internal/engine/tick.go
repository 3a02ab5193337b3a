package engine

import "github.com/san-kum/ballsim/internal/physics"

// Tick advances every live sphere by dt and resolves its contacts, in index
// order. Each sphere is integrated and collided before the next one moves.
func Tick(scene *physics.Scene, dt float64) {
	for i, s := range scene.Spheres {
		if s == nil {
			continue
		}
		s.Update(dt)
		s.Collide(scene, i)
	}
}
