// Package physics provides the geometric entities and collision model of the
// bouncing-ball scene.
//
// The shape set is closed and small:
//
//   - [Sphere]: the only moving body; point mass with velocity and a list of
//     active [Force] values, gravity always at index 0
//   - [Plane]: static quad, infinite for collision purposes
//   - [AABB]: axis-aligned wall, a [Plane] restricted to its rectangle
//
// Collision detection is one free function per concrete pair
// ([SphereSphere], [SpherePlane], [SphereAABB]) with matching response
// functions. There is no broad phase; [Sphere.Collide] checks every pair.
//
// # Integration
//
// [Sphere.Update] is semi-implicit Euler: forces change velocity first, the
// new velocity moves the position.
//
//	s, _ := physics.NewSphere(vmath.New(0, 10, 0), 0.2, 1)
//	scene.AddSphere(s)
//	for i, s := range scene.Spheres {
//	    s.Update(dt)
//	    s.Collide(scene, i)
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. The engine package
// serializes every access to a [Scene].
//
// # Tunneling
//
// Collisions are discrete end-of-step checks. Walls tolerate a sphere that is
// up to [TunnelTolerance] radii behind the surface; anything faster than that
// per tick passes through. This is a known limitation.
package physics
