package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are rebuilt from the current theme by ApplyTheme.
var (
	Title         lipgloss.Style
	Subtle        lipgloss.Style
	CanvasStyle   lipgloss.Style
	StatusRunning lipgloss.Style
	StatusStopped lipgloss.Style
	StatusError   lipgloss.Style
	MetricValue   lipgloss.Style
	MetricLabel   lipgloss.Style
	KeyHint       lipgloss.Style
	Panel         lipgloss.Style

	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
)

func init() {
	ApplyTheme(CurrentTheme)
}

// ApplyTheme makes t current and restyles every shared style.
func ApplyTheme(t Theme) {
	CurrentTheme = t

	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	CanvasStyle = lipgloss.NewStyle().Foreground(t.Text)
	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	StatusStopped = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	StatusError = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	KeyHint = lipgloss.NewStyle().Italic(true).Foreground(t.Muted)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)

	SparkHigh = lipgloss.NewStyle().Foreground(t.Success)
	SparkMid = lipgloss.NewStyle().Foreground(t.Warning)
	SparkLow = lipgloss.NewStyle().Foreground(t.Error)
}

// GradientText colors each character between two hex colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	runes := []rune(text)
	n := len(runes)

	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

// SparklineChart renders the most recent width values as block characters.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = max(0, min(v, 255))
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
