package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(1, 2).Width(46)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Width(12)
	valueStyle  = lipgloss.NewStyle()
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().MarginTop(1)

	Subtle          = lipgloss.NewStyle()
	StatusRunning   = lipgloss.NewStyle().Bold(true)
	StatusPaused    = lipgloss.NewStyle().Bold(true)
	StatusRecording = lipgloss.NewStyle().Bold(true).Blink(true)
	KeyHint         = lipgloss.NewStyle().Bold(true)
	Cursor          = lipgloss.NewStyle().Bold(true)

	SparkHigh = lipgloss.NewStyle()
	SparkMid  = lipgloss.NewStyle()
	SparkLow  = lipgloss.NewStyle()
)

func init() { applyTheme(CurrentTheme) }

// applyTheme recolours every shared style from t.
func applyTheme(t Theme) {
	statsStyle = statsStyle.BorderForeground(t.Muted)
	headerStyle = headerStyle.Foreground(t.Primary)
	labelStyle = labelStyle.Foreground(t.Muted)
	valueStyle = valueStyle.Foreground(t.Text)
	graphStyle = graphStyle.Foreground(t.Secondary)
	helpStyle = helpStyle.Foreground(t.Muted)

	Subtle = Subtle.Foreground(t.Muted)
	StatusRunning = StatusRunning.Foreground(t.Success)
	StatusPaused = StatusPaused.Foreground(t.Warning)
	StatusRecording = StatusRecording.Foreground(t.Error)
	KeyHint = KeyHint.Foreground(t.Secondary)
	Cursor = Cursor.Foreground(t.Accent)

	SparkHigh = SparkHigh.Foreground(t.Success)
	SparkMid = SparkMid.Foreground(t.Warning)
	SparkLow = SparkLow.Foreground(t.Error)
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame uint64) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%uint64(len(spinners))]
}

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders a mini sparkline from the last width values.
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
		idx = clampInt(idx, 0, len(chars)-1)

		c := string(chars[idx])
		if norm > 0.7 {
			result.WriteString(SparkHigh.Render(c))
		} else if norm > 0.3 {
			result.WriteString(SparkMid.Render(c))
		} else {
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

// Separator is a muted rule with a diamond in the middle.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
