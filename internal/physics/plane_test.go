package physics

import (
	"errors"
	"testing"

	"github.com/san-kum/ballsim/internal/vmath"
)

func TestNewPlaneNormal(t *testing.T) {
	p, err := Floor()
	if err != nil {
		t.Fatalf("floor: %v", err)
	}
	if !p.Normal.ApproxEqual(vmath.New(0, 1, 0), 1e-12) {
		t.Errorf("floor normal = %v, want +Y", p.Normal)
	}
	if d := p.SignedDistance(vmath.New(5, 2, -3)); d != 2 {
		t.Errorf("signed distance = %v, want 2", d)
	}
	if got := p.Project(vmath.New(5, 2, -3)); !got.ApproxEqual(vmath.New(5, 0, -3), 1e-12) {
		t.Errorf("projection = %v", got)
	}
}

func TestNewPlaneRejectsBadCorners(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d vmath.Vec3
		want       error
	}{
		{
			"collinear",
			vmath.New(0, 0, 0), vmath.New(1, 0, 0), vmath.New(2, 0, 0), vmath.New(3, 0, 0),
			ErrDegenerateGeometry,
		},
		{
			"coincident",
			vmath.New(1, 1, 1), vmath.New(1, 1, 1), vmath.New(1, 1, 1), vmath.New(1, 1, 1),
			ErrDegenerateGeometry,
		},
		{
			"warped",
			vmath.New(0, 0, 0), vmath.New(1, 0, 0), vmath.New(1, 0.5, -1), vmath.New(0, 0, -1),
			ErrNotCoplanar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlane(tt.a, tt.b, tt.c, tt.d, FloorColor)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			_, err = NewAABB(tt.a, tt.b, tt.c, tt.d, WallColor)
			if !errors.Is(err, tt.want) {
				t.Errorf("AABB: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAABBExtents(t *testing.T) {
	box, err := NewAABB(
		vmath.New(30, 0, -30), vmath.New(30, 15, -30), vmath.New(-30, 15, -30), vmath.New(-30, 0, -30),
		WallColor,
	)
	if err != nil {
		t.Fatalf("new aabb: %v", err)
	}

	if box.Min != vmath.New(-30, 0, -30) || box.Max != vmath.New(30, 15, -30) {
		t.Errorf("extents = %v..%v", box.Min, box.Max)
	}
	if !box.Normal.ApproxEqual(vmath.New(0, 0, 1), 1e-12) {
		t.Errorf("back wall normal = %v, want +Z", box.Normal)
	}
	if !box.Within(vmath.New(0, 7, -30)) {
		t.Error("point on the wall should be within")
	}
	if box.Within(vmath.New(31, 7, -30)) {
		t.Error("point past the edge should not be within")
	}
}

func TestStandardWallsFaceInward(t *testing.T) {
	walls, err := StandardWalls()
	if err != nil {
		t.Fatalf("walls: %v", err)
	}
	if len(walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(walls))
	}

	center := vmath.New(0, 5, 0)
	for i, w := range walls {
		if d := w.SignedDistance(center); d <= 0 {
			t.Errorf("wall %d faces away from the arena (distance %v)", i, d)
		}
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{0, 0, 0}, "#000000"},
		{Color{1, 1, 1}, "#ffffff"},
		{Color{1, 0.5, 0}, "#ff8000"},
		{Color{2, -1, 0}, "#ff0000"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}
