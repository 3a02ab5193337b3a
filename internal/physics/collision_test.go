package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/vmath"
)

func sphere(pos, vel vmath.Vec3, radius, mass, restitution float64) *physics.Sphere {
	s, err := physics.NewSphere(pos, radius, mass,
		physics.WithVelocity(vel), physics.WithRestitution(restitution))
	Expect(err).NotTo(HaveOccurred())
	return s
}

func floor() *physics.Plane {
	p, err := physics.Floor()
	Expect(err).NotTo(HaveOccurred())
	return p
}

func axisEnergy(a, b *physics.Sphere, axis vmath.Vec3) float64 {
	va := a.Velocity.Dot(axis)
	vb := b.Velocity.Dot(axis)
	return 0.5*a.Mass*va*va + 0.5*b.Mass*vb*vb
}

var _ = Describe("Collision", func() {
	Describe("detection", func() {
		It("detects touching and overlapping spheres", func() {
			a := sphere(vmath.New(0, 0, 0), vmath.Zero(), 0.5, 1, 1)
			b := sphere(vmath.New(1, 0, 0), vmath.Zero(), 0.5, 1, 1)
			Expect(physics.SphereSphere(a, b)).To(BeTrue())

			b.Position = vmath.New(1.01, 0, 0)
			Expect(physics.SphereSphere(a, b)).To(BeFalse())
		})

		It("treats everything behind a plane as colliding", func() {
			p := floor()
			s := sphere(vmath.New(0, 0.3, 0), vmath.Zero(), 0.2, 1, 0.8)
			Expect(physics.SpherePlane(s, p)).To(BeFalse())

			s.Position = vmath.New(0, 0.2, 0)
			Expect(physics.SpherePlane(s, p)).To(BeTrue())

			s.Position = vmath.New(0, -50, 0)
			Expect(physics.SpherePlane(s, p)).To(BeTrue())
		})

		It("bounds wall contacts to the footprint and the tunneling tolerance", func() {
			walls, err := physics.StandardWalls()
			Expect(err).NotTo(HaveOccurred())
			left := walls[0]
			Expect(left.Normal.ApproxEqual(vmath.New(1, 0, 0), 1e-12)).To(BeTrue())

			s := sphere(vmath.New(-29.9, 5, 0), vmath.Zero(), 0.2, 1, 0.8)
			Expect(physics.SphereAABB(s, left)).To(BeTrue())

			s.Position = vmath.New(-29.9, 20, 0)
			Expect(physics.SphereAABB(s, left)).To(BeFalse(), "above the wall")

			s.Position = vmath.New(-31.9, 5, 0)
			Expect(physics.SphereAABB(s, left)).To(BeTrue(), "within ten radii behind")

			s.Position = vmath.New(-32.1, 5, 0)
			Expect(physics.SphereAABB(s, left)).To(BeFalse(), "tunneled too far")
		})
	})

	Describe("sphere-sphere response", func() {
		It("exchanges velocities in a perfectly elastic head-on collision", func() {
			v := 2.0
			a := sphere(vmath.New(-0.49, 0, 0), vmath.New(v, 0, 0), 0.5, 1, 1)
			b := sphere(vmath.New(0.49, 0, 0), vmath.New(-v, 0, 0), 0.5, 1, 1)

			physics.ResolveSphereSphere(a, b)

			Expect(a.Velocity.ApproxEqual(vmath.New(-v, 0, 0), 1e-9)).To(BeTrue(), "a: %v", a.Velocity)
			Expect(b.Velocity.ApproxEqual(vmath.New(v, 0, 0), 1e-9)).To(BeTrue(), "b: %v", b.Velocity)
		})

		DescribeTable("conserves momentum",
			func(m1, m2, r1, r2 float64) {
				a := sphere(vmath.New(0, 0, 0), vmath.New(1, 0.5, -0.2), 0.4, m1, r1)
				b := sphere(vmath.New(0.5, 0.3, 0.1), vmath.New(-2, 0.1, 0.3), 0.3, m2, r2)
				before := a.Momentum().Add(b.Momentum())

				physics.ResolveSphereSphere(a, b)

				after := a.Momentum().Add(b.Momentum())
				Expect(after.ApproxEqual(before, 1e-9)).To(BeTrue(), "before %v after %v", before, after)
			},
			Entry("elastic, equal masses", 1.0, 1.0, 1.0, 1.0),
			Entry("elastic, unequal masses", 0.5, 2.0, 1.0, 1.0),
			Entry("inelastic", 1.0, 3.0, 0.6, 0.9),
		)

		It("loses energy along the collision axis when restitution is below one", func() {
			a := sphere(vmath.New(-0.3, 0, 0), vmath.New(3, 1, 0), 0.2, 1, 0.7)
			b := sphere(vmath.New(0.05, 0, 0), vmath.New(-1, 0, 2), 0.2, 2, 0.9)
			axis := vmath.New(1, 0, 0)
			before := axisEnergy(a, b, axis)

			physics.ResolveSphereSphere(a, b)

			Expect(axisEnergy(a, b, axis)).To(BeNumerically("<", before))
			Expect(a.Velocity.Y()).To(BeNumerically("~", 1, 1e-12), "perpendicular component kept")
			Expect(b.Velocity.Z()).To(BeNumerically("~", 2, 1e-12), "perpendicular component kept")
		})

		It("leaves no residual overlap", func() {
			a := sphere(vmath.New(0, 0, 0), vmath.New(0.1, 0, 0), 0.5, 1, 0.5)
			b := sphere(vmath.New(0.3, 0.4, 0), vmath.New(-0.1, 0, 0), 0.5, 3, 0.5)

			physics.ResolveSphereSphere(a, b)

			Expect(a.Position.Distance(b.Position)).To(BeNumerically(">=", 1-1e-9))
		})

		It("separates coincident spheres", func() {
			a := sphere(vmath.New(1, 1, 1), vmath.Zero(), 0.2, 1, 1)
			b := sphere(vmath.New(1, 1, 1), vmath.Zero(), 0.2, 1, 1)

			physics.ResolveSphereSphere(a, b)

			Expect(a.Position.Distance(b.Position)).To(BeNumerically("~", 0.4, 1e-9))
			Expect(a.Position.IsValid()).To(BeTrue())
		})
	})

	Describe("sphere-plane response", func() {
		It("negates and scales the normal component and keeps the tangential one", func() {
			p := floor()
			s := sphere(vmath.New(0, 0.2, 0), vmath.New(1.5, -2, -0.5), 0.2, 1, 0.6)

			physics.ResolveSpherePlane(s, p)

			Expect(s.Velocity.Y()).To(BeNumerically("~", 2*0.6, 1e-12))
			Expect(s.Velocity.X()).To(BeNumerically("~", 1.5, 1e-12))
			Expect(s.Velocity.Z()).To(BeNumerically("~", -0.5, 1e-12))
		})

		It("pushes a penetrating sphere out by exactly the penetration", func() {
			p := floor()
			s := sphere(vmath.New(3, 0.05, 4), vmath.New(0, -1, 0), 0.2, 1, 0.8)

			physics.ResolveSpherePlane(s, p)

			Expect(s.Position.Y()).To(BeNumerically("~", 0.2, 1e-12))
			Expect(s.Position.X()).To(Equal(3.0))
		})

		It("bounces off a wall only inside its rectangle", func() {
			walls, err := physics.StandardWalls()
			Expect(err).NotTo(HaveOccurred())
			scene := physics.NewScene()
			scene.AddWalls(walls...)

			inside := sphere(vmath.New(29.85, 5, 0), vmath.New(4, 0, 0), 0.2, 1, 1)
			outside := sphere(vmath.New(29.85, 16, 0), vmath.New(4, 0, 0), 0.2, 1, 1)
			scene.AddSphere(inside)
			scene.AddSphere(outside)

			inside.Collide(scene, 0)
			outside.Collide(scene, 1)

			Expect(inside.Velocity.X()).To(BeNumerically("~", -4, 1e-9))
			Expect(inside.Position.X()).To(BeNumerically("~", 29.8, 1e-9))
			Expect(outside.Velocity.X()).To(Equal(4.0))
		})
	})

	Describe("Collide", func() {
		It("resolves each unordered pair once per tick", func() {
			scene := physics.NewScene()
			a := sphere(vmath.New(-0.49, 0, 0), vmath.New(1, 0, 0), 0.5, 1, 1)
			b := sphere(vmath.New(0.49, 0, 0), vmath.New(-1, 0, 0), 0.5, 1, 1)
			scene.AddSphere(a)
			scene.AddSphere(b)

			a.Collide(scene, 0)
			b.Collide(scene, 1)

			Expect(a.Velocity.X()).To(BeNumerically("~", -1, 1e-9))
			Expect(b.Velocity.X()).To(BeNumerically("~", 1, 1e-9))
		})

		It("skips nil slots", func() {
			scene := physics.NewScene()
			a := sphere(vmath.New(0, 5, 0), vmath.Zero(), 0.2, 1, 1)
			scene.AddSphere(a)
			scene.Spheres = append(scene.Spheres, nil)
			scene.AddPlane(floor())

			Expect(func() { engine.Tick(scene, 0.01) }).NotTo(Panic())
		})
	})

	Describe("scenarios", func() {
		const dt = 1.0 / 60

		It("settles a zero-restitution sphere resting on the floor", func() {
			scene := physics.NewScene()
			scene.AddPlane(floor())
			s := sphere(vmath.New(0, 0.2, 0), vmath.Zero(), 0.2, 1, 0)
			scene.AddSphere(s)

			for i := 0; i < 5; i++ {
				engine.Tick(scene, dt)
				Expect(s.Velocity.Y()).To(BeNumerically("~", 0, 1e-12))
				Expect(s.Position.Y()).To(BeNumerically("~", 0.2, 1e-12))
			}
		})

		It("brings a dropped ball to rest on the floor", func() {
			scene := physics.NewScene()
			scene.AddPlane(floor())
			s := sphere(vmath.New(0, 10, 0), vmath.Zero(), 0.2, 1, physics.DefaultRestitution)
			scene.AddSphere(s)

			for i := 0; i < 20000; i++ {
				engine.Tick(scene, dt)
			}

			Expect(s.Position.Y()).To(BeNumerically("~", 0.2, 0.01))
			Expect(s.Velocity.Len()).To(BeNumerically("<", 0.02))
			Expect(s.Position.X()).To(Equal(0.0))
			Expect(s.Position.Z()).To(Equal(0.0))
		})

		It("keeps generated balls inside the walls", func() {
			scene := physics.NewScene()
			scene.AddPlane(floor())
			walls, err := physics.StandardWalls()
			Expect(err).NotTo(HaveOccurred())
			scene.AddWalls(walls...)

			scene.AddSphere(sphere(vmath.New(0, 0.2, -10), vmath.New(20, 0, 0), 0.2, 0.7, 0.9))
			scene.AddSphere(sphere(vmath.New(0, 0.2, 10), vmath.New(-15, 0, 0), 0.2, 0.7, 0.9))
			scene.AddSphere(sphere(vmath.New(10, 0.2, 0), vmath.New(0, 0, -20), 0.2, 0.7, 0.9))

			for i := 0; i < 600; i++ {
				engine.Tick(scene, dt)
			}

			for _, s := range scene.Spheres {
				Expect(math.Abs(s.Position.X())).To(BeNumerically("<=", 30))
				Expect(math.Abs(s.Position.Z())).To(BeNumerically("<=", 30))
				Expect(s.Position.Y()).To(BeNumerically(">=", 0))
			}
		})
	})
})
