package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ballsim/internal/viz"
	"github.com/san-kum/ballsim/internal/vmath"
)

// impulseKeys map to force directions on the selected ball.
var impulseKeys = map[string]vmath.Vec3{
	"h": vmath.New(-1, 0, 0),
	"l": vmath.New(1, 0, 0),
	"k": vmath.New(0, 0, -1),
	"j": vmath.New(0, 0, 1),
	"u": vmath.New(0, 1, 0),
	"o": vmath.New(0, -1, 0),
}

const keyHelp = "space run/stop  →/n step  r/R reset  g generate  W walls  s spawn  " +
	"tab/click select  x delete  c clear  hjkluo push  e/E field  ,/. edit  " +
	"+/- fps  v view  t theme  q quit"

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.status = ""
	m.statusErr = false

	key := msg.String()
	if dir, ok := impulseKeys[key]; ok {
		m.impulse(dir)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		m.eng.Stop()
		return m, tea.Quit
	case " ", "space":
		m.eng.Flip()
	case "right", "n":
		m.eng.Step()
	case "r":
		m.resetAll()
	case "R":
		m.resetSelected()
	case "g":
		m.generate()
	case "W":
		m.toggleWalls()
	case "s":
		m.spawn()
	case "tab":
		m.selectNext()
	case "backspace", "x":
		m.deleteSelected()
	case "c":
		m.clearAll()
	case "+", "=":
		m.changeFPS(fpsIncrement)
	case "-", "_":
		m.changeFPS(-fpsIncrement)
	case "v":
		m.view = m.view.Next()
		m.setStatus("%s view", m.view)
	case "a":
		m.camera.RotateY(-0.1)
	case "d":
		m.camera.RotateY(0.1)
	case "[":
		m.camera.ZoomOut()
	case "]":
		m.camera.ZoomIn()
	case "z":
		m.camera.ResetView()
	case "e":
		m.editing = m.editing.next()
		m.setStatus("editing %s", m.editHint())
	case "E":
		m.editing = m.editing.prev()
		m.setStatus("editing %s", m.editHint())
	case ".":
		m.adjust(1)
	case ",":
		m.adjust(-1)
	case "t":
		viz.ApplyTheme(viz.NextTheme())
		m.setStatus("theme %s", viz.CurrentTheme.Name)
	}
	return m, nil
}
