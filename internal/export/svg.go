package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/viz"
	"github.com/san-kum/ballsim/internal/vmath"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG format, one circle per lit
// dot in the cell's tint.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if tint := canvas.Tints[y/4][x/2]; tint != "" {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, dotRadius, tint))
			} else {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG creates an SVG from trajectory data
func TrajectoryToSVG(points []struct{ X, Y float64 }, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// 10% padding on each side
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SceneToSVG draws a flat projection of the scene: surfaces as outlines and
// spheres as discs in their display colors. Orbit falls back to Side.
func SceneToSVG(scene *physics.Scene, width, height int, proj viz.Projection) string {
	if scene == nil || width <= 0 || height <= 0 {
		return ""
	}
	if proj == viz.Orbit {
		proj = viz.Side
	}

	vp := viz.Viewport{
		Projection: proj,
		Extent:     viz.DefaultExtent,
		Width:      width,
		Height:     height,
	}
	scale := vp.Scale()
	at := func(p vmath.Vec3) (float64, float64) {
		x, y, _ := vp.Project(p)
		return float64(x), float64(y)
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	surface := func(p *physics.Plane) {
		corners := p.Corners()
		sb.WriteString(fmt.Sprintf(`<polygon fill="none" stroke="%s" stroke-width="1" points="`, p.Color.Hex()))
		for i, c := range corners {
			x, y := at(c)
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")
	}
	for _, p := range scene.Planes {
		if p != nil {
			surface(p)
		}
	}
	for _, box := range scene.AABBs {
		if box != nil {
			surface(&box.Plane)
		}
	}

	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		x, y := at(s.Position)
		r := math.Max(s.Radius*scale, 0.5)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", x, y, r, s.DisplayColor().Hex()))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
