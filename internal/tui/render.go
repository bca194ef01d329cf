package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Severity selects the notification colour.
type Severity int

// Severities, mirroring the notification levels.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityColors = map[Severity]lipgloss.Color{
	SeverityInfo:    lipgloss.Color("#4CAF50"),
	SeverityWarning: lipgloss.Color("#FFB300"),
	SeverityError:   lipgloss.Color("#FF6B6B"),
}

var severityMarks = map[Severity]string{
	SeverityInfo:    "✓",
	SeverityWarning: "!",
	SeverityError:   "✗",
}

// Box renders a notification with a coloured border. The first message line
// is the headline; the rest is the body.
func Box(s Severity, message string, width int) string {
	color, ok := severityColors[s]
	if !ok {
		color = severityColors[SeverityInfo]
	}

	headline, body, _ := strings.Cut(strings.TrimSpace(message), "\n")
	head := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(severityMarks[s] + " " + headline)

	content := head
	if body = strings.TrimSpace(body); body != "" {
		content += "\n\n" + body
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(max(20, width)).
		Render(content)
}

// Plain renders a notification without styling, for non-terminal output.
func Plain(s Severity, message string) string {
	prefix := map[Severity]string{
		SeverityInfo:    "",
		SeverityWarning: "warning: ",
		SeverityError:   "error: ",
	}[s]
	return prefix + strings.TrimSpace(message)
}
