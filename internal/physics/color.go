package physics

import "fmt"

// Color is an RGB triple with components in [0,1].
type Color struct {
	R, G, B float64
}

var (
	DefaultSphereColor   = Color{1, 0.9, 0.9}
	DefaultSelectedColor = Color{0.9, 0.1, 0.1}
	FloorColor           = Color{0.5, 0.7, 0.5}
	WallColor            = Color{0.5, 0.4, 0.8}
)

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
