package viz

import (
	"math"
	"sort"

	"github.com/san-kum/ballsim/internal/physics"
)

// RenderScene draws surfaces as outlines and spheres as circles. The
// selected sphere is filled. In Orbit, spheres are painted far to near.
func RenderScene(c *Canvas, scene *physics.Scene, vp Viewport) {
	if c == nil || scene == nil {
		return
	}

	for _, p := range scene.Planes {
		if p != nil {
			drawQuad(c, vp, p, p.Color.Hex())
		}
	}
	for _, box := range scene.AABBs {
		if box != nil {
			drawQuad(c, vp, &box.Plane, box.Color.Hex())
		}
	}

	type disc struct {
		x, y, r  int
		depth    float64
		color    string
		selected bool
	}
	discs := make([]disc, 0, len(scene.Spheres))
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		x, y, ok := vp.Project(s.Position)
		if !ok {
			continue
		}
		d := disc{
			x:        x,
			y:        y,
			r:        int(math.Round(s.Radius * vp.Scale())),
			color:    s.DisplayColor().Hex(),
			selected: s.Selected,
		}
		if vp.Projection == Orbit {
			_, _, d.depth, _ = vp.Camera.Project(s.Position, vp.Width, vp.Height)
		}
		discs = append(discs, d)
	}

	if vp.Projection == Orbit {
		sort.SliceStable(discs, func(i, j int) bool { return discs[i].depth > discs[j].depth })
	}
	for _, d := range discs {
		if d.selected {
			c.FillCircle(d.x, d.y, d.r, d.color)
		} else {
			c.DrawCircle(d.x, d.y, d.r, d.color)
		}
	}
}

func drawQuad(c *Canvas, vp Viewport, p *physics.Plane, color string) {
	corners := p.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		x0, y0, ok0 := vp.Project(a)
		x1, y1, ok1 := vp.Project(b)
		if !ok0 && !ok1 && vp.Projection == Orbit {
			continue
		}
		c.DrawLine(clip(x0, vp.Width), clip(y0, vp.Height), clip(x1, vp.Width), clip(y1, vp.Height), color)
	}
}

// clip keeps line endpoints near the canvas so Bresenham does not walk far
// off screen.
func clip(v, size int) int {
	if v < -1 {
		return -1
	}
	if v > size {
		return size
	}
	return v
}
