package engine

import "errors"

var (
	// ErrRunning indicates a synchronous operation attempted while the loop
	// is ticking on its own.
	ErrRunning = errors.New("engine: simulation is running")

	ErrClosed = errors.New("engine: engine is closed")
)
