package physics

import "errors"

var (
	// ErrDegenerateGeometry indicates corners that span no area.
	ErrDegenerateGeometry = errors.New("physics: degenerate geometry (zero-area quad)")

	// ErrNotCoplanar indicates a quad whose fourth corner is off the plane.
	ErrNotCoplanar = errors.New("physics: quad corners are not coplanar")

	// ErrInvalidSphere indicates a non-positive radius or mass, or a
	// restitution outside [0,1].
	ErrInvalidSphere = errors.New("physics: invalid sphere parameters")

	ErrIndexOutOfRange = errors.New("physics: sphere index out of range")
)
