package sim

import "errors"

// ContainmentBound is the half-width used by the containment metric in
// headless runs. It matches the standard walls.
const ContainmentBound = 30.0

var (
	ErrNoRuns       = errors.New("sim: ensemble needs at least one run")
	ErrUnknownParam = errors.New("sim: unknown parameter")
	ErrNoMetric     = errors.New("sim: metric not recorded")
)

// Result is the outcome of one headless run.
type Result struct {
	Seed    int64
	Params  map[string]float64
	Ticks   uint64
	SimTime float64
	Spheres int
	Metrics map[string]float64
}

// Stat summarizes one metric across an ensemble.
type Stat struct {
	Mean float64
	Min  float64
	Max  float64
}
