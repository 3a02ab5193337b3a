package storage

import (
	"fmt"

	"github.com/san-kum/ballsim/internal/physics"
)

// Trace is a sampled run. Each state row holds x, y, z for every live sphere
// in slot order.
type Trace struct {
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

func (t *Trace) Len() int { return len(t.Times) }

// Spheres is the number of spheres in the first sample.
func (t *Trace) Spheres() int {
	if len(t.States) == 0 {
		return 0
	}
	return len(t.States[0]) / 3
}

// Column extracts one coordinate (0=x, 1=y, 2=z) of one sphere over time.
// Samples recorded after the sphere was removed are skipped.
func (t *Trace) Column(sphere, axis int) ([]float64, error) {
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("storage: axis %d out of range", axis)
	}
	if len(t.States) == 0 {
		return nil, ErrEmptyTrace
	}
	if sphere < 0 || sphere >= t.Spheres() {
		return nil, fmt.Errorf("storage: sphere %d out of range (%d recorded)", sphere, t.Spheres())
	}

	idx := sphere*3 + axis
	out := make([]float64, 0, len(t.States))
	for _, row := range t.States {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}

// Path returns the (x, y) or (x, z) path of one sphere for plotting.
func (t *Trace) Path(sphere int, top bool) ([]struct{ X, Y float64 }, error) {
	xs, err := t.Column(sphere, 0)
	if err != nil {
		return nil, err
	}
	axis := 1
	if top {
		axis = 2
	}
	ys, err := t.Column(sphere, axis)
	if err != nil {
		return nil, err
	}

	points := make([]struct{ X, Y float64 }, len(xs))
	for i := range xs {
		points[i].X = xs[i]
		points[i].Y = ys[i]
	}
	return points, nil
}

// Recorder is an engine observer that samples every Nth tick.
type Recorder struct {
	every int
	count int
	trace Trace
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnTick(scene *physics.Scene, simTime float64) {
	r.count++
	if r.count%r.every != 0 {
		return
	}
	r.Record(scene, simTime)
}

// Record appends a sample unconditionally, e.g. the initial state.
func (r *Recorder) Record(scene *physics.Scene, simTime float64) {
	row := make([]float64, 0, 3*len(scene.Spheres))
	for _, s := range scene.Spheres {
		if s == nil {
			continue
		}
		row = append(row, s.Position.X(), s.Position.Y(), s.Position.Z())
	}
	r.trace.Times = append(r.trace.Times, simTime)
	r.trace.States = append(r.trace.States, row)
}

func (r *Recorder) Trace() *Trace { return &r.trace }

func (r *Recorder) Reset() {
	r.count = 0
	r.trace = Trace{}
}
