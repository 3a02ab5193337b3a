package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballsim/internal/engine"
	"github.com/san-kum/ballsim/internal/viz"
)

// canvasTop is the terminal row the canvas starts on, below the header and
// separator.
const canvasTop = 2

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader() + "\n")
	b.WriteString(viz.Separator(m.width-2) + "\n")

	cw, ch := m.canvasSize()
	canvas := viz.NewCanvas(cw, ch)
	viz.RenderScene(canvas, m.snap, viz.NewViewport(m.view, m.camera, canvas))
	b.WriteString(canvas.Styled(viz.CanvasStyle))

	b.WriteString(viz.Separator(m.width-2) + "\n")
	b.WriteString(m.viewStats() + "\n")
	b.WriteString(m.viewSelected() + "\n")
	if m.status != "" {
		style := viz.Subtle
		if m.statusErr {
			style = viz.StatusError
		}
		b.WriteString(style.Render(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(viz.KeyHint.Render(keyHelp))

	return b.String()
}

func (m model) canvasSize() (int, int) {
	cw := m.width - 2
	ch := m.height - 9
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}
	return cw, ch
}

func (m model) viewHeader() string {
	title := viz.GradientText("ballsim", viz.CurrentTheme.Primary, viz.CurrentTheme.Secondary)

	state := m.eng.State()
	var status string
	switch state {
	case engine.Running:
		status = viz.StatusRunning.Render("▶ " + state.String())
	default:
		status = viz.StatusStopped.Render("■ " + state.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ",
		viz.Title.Render(m.preset), "  ",
		status, "  ",
		metric("view", m.view.String()),
	)
}

func (m model) viewStats() string {
	n := 0
	if m.snap != nil {
		n = m.snap.Len()
	}
	stats := strings.Join([]string{
		metric("t", fmt.Sprintf("%.2fs", m.eng.SimTime())),
		metric("balls", fmt.Sprint(n)),
		metric("physics", fmt.Sprintf("%d/%d Hz", m.eng.Rate(), m.eng.FPS())),
		metric("render", fmt.Sprintf("%.0f fps", m.renderFPS)),
	}, "  ")
	return stats + "  " + viz.MetricLabel.Render("ke ") + viz.SparklineChart(m.energy, 30)
}

func (m model) viewSelected() string {
	if m.snap == nil {
		return ""
	}
	edit := metric("edit", m.editHint())
	idx, s := m.snap.Selected()
	if s == nil {
		return viz.Subtle.Render("no ball selected") + "  " + edit
	}
	return strings.Join([]string{
		metric("ball", fmt.Sprint(idx)),
		metric("pos", s.Position.String()),
		metric("vel", s.Velocity.String()),
		metric("m", fmt.Sprintf("%.2f", s.Mass)),
		metric("r", fmt.Sprintf("%.2f", s.Radius)),
		metric("e", fmt.Sprintf("%.2f", s.Restitution)),
		metric("forces", fmt.Sprint(len(s.Forces)-1)),
		edit,
	}, "  ")
}

func metric(label, value string) string {
	return viz.MetricLabel.Render(label+" ") + viz.MetricValue.Render(value)
}
