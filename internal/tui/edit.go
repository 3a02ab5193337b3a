package tui

import (
	"errors"
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/viz"
)

var errNoSelection = errors.New("select a ball first (tab)")

// field is the parameter the edit keys change.
type field int

const (
	fieldRadius field = iota
	fieldMass
	fieldRestitution
	fieldX
	fieldY
	fieldZ
	fieldVX
	fieldVY
	fieldVZ
	fieldPower
	fieldDecay
	numFields
)

var fieldNames = [numFields]string{
	"radius", "mass", "restitution",
	"x", "y", "z",
	"vx", "vy", "vz",
	"power", "decay",
}

var fieldSteps = [numFields]float64{
	0.05, 0.1, 0.05,
	0.5, 0.2, 0.5,
	0.5, 0.5, 0.5,
	1, 0.25,
}

func (f field) String() string { return fieldNames[f] }

func (f field) step() float64 { return fieldSteps[f] }

func (f field) next() field { return (f + 1) % numFields }

func (f field) prev() field { return (f + numFields - 1) % numFields }

// rest reports whether f edits the position or velocity Reset restores.
func (f field) rest() bool { return f >= fieldX && f <= fieldVZ }

// value reads f from s, or from the model for the impulse settings.
func (m *model) value(f field, s *physics.Sphere) float64 {
	switch f {
	case fieldPower:
		return m.power
	case fieldDecay:
		return m.decay
	}
	if s == nil {
		return 0
	}
	switch f {
	case fieldRadius:
		return s.Radius
	case fieldMass:
		return s.Mass
	case fieldRestitution:
		return s.Restitution
	case fieldX, fieldY, fieldZ:
		return s.OriginalPosition[f-fieldX]
	default:
		return s.OriginalVelocity[f-fieldVX]
	}
}

// adjust moves the current field by steps increments. Rest position and
// velocity edits reach the live ball only while the loop is stopped.
func (m *model) adjust(steps int) {
	f := m.editing
	delta := float64(steps) * f.step()

	switch f {
	case fieldPower:
		m.power = max(0, m.power+delta)
		m.setStatus("impulse power %.2f", m.power)
		return
	case fieldDecay:
		m.decay = max(0, m.decay+delta)
		m.setStatus("impulse decay %.2f", m.decay)
		return
	}

	live := m.eng.State() == engine.Stopped
	var got float64
	m.mutate(func(sc *physics.Scene) error {
		_, s := sc.Selected()
		if s == nil {
			return errNoSelection
		}
		v := m.value(f, s) + delta
		switch f {
		case fieldRadius:
			if err := s.SetRadius(v); err != nil {
				return err
			}
		case fieldMass:
			if err := s.SetMass(v); err != nil {
				return err
			}
		case fieldRestitution:
			if err := s.SetRestitution(min(v, 1)); err != nil {
				return err
			}
		case fieldX, fieldY, fieldZ:
			p := s.OriginalPosition
			p[f-fieldX] = v
			s.SetRestPosition(p, live)
		default:
			vel := s.OriginalVelocity
			vel[f-fieldVX] = v
			s.SetRestVelocity(vel, live)
		}
		got = m.value(f, s)
		return nil
	})
	if m.statusErr {
		return
	}
	if f.rest() && !live {
		m.setStatus("%s %.2f (applies on reset)", f, got)
		return
	}
	m.setStatus("%s %.2f", f, got)
}

// pick selects the ball under a left click. Only the flat views can be
// inverted; the axis they flatten is ignored when testing the hit.
func (m *model) pick(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	cw, ch := m.canvasSize()
	row := msg.Y - canvasTop
	if msg.X < 0 || msg.X >= cw || row < 0 || row >= ch {
		return
	}

	vp := viz.NewViewport(m.view, m.camera, viz.NewCanvas(cw, ch))
	p, ok := vp.Unproject(msg.X*2+1, row*4+2)
	if !ok {
		m.setStatus("picking works in the side and top views")
		return
	}
	axis := 2
	if m.view == viz.Top {
		axis = 1
	}

	// A click is only known to its 2x4 sub-pixel cell, and the ball was
	// rounded into it.
	h := math.Hypot(1.5, 2.5) / vp.Scale()
	slack := h*h + physics.PickSlack

	idx := -1
	m.mutate(func(sc *physics.Scene) error {
		idx = sc.PickAcross(p, axis, slack)
		return nil
	})
	if idx < 0 {
		return
	}
	m.setStatus("selected ball %d", idx)
}

func (m model) editHint() string {
	var s *physics.Sphere
	if m.snap != nil {
		_, s = m.snap.Selected()
	}
	return fmt.Sprintf("%s=%.2f", m.editing, m.value(m.editing, s))
}
