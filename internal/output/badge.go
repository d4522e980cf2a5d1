package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sbomscope/sbomscope/pkg/models"
)

var (
	severityColor = map[models.Severity]lipgloss.Color{
		models.SeverityUnknown:  lipgloss.Color("243"), // grey
		models.SeverityLow:      lipgloss.Color("28"),  // green
		models.SeverityMedium:   lipgloss.Color("208"), // orange
		models.SeverityHigh:     lipgloss.Color("160"), // red
		models.SeverityCritical: lipgloss.Color("88"),  // dark red
	}
	severityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")). // white
			Bold(true).
			Align(lipgloss.Center)
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e62129"))
)

// RenderSeverity renders a badge for a severity, including the score it was
// derived from when there is one.
func RenderSeverity(sev models.Severity, score *float64) string {
	label := strings.ToUpper(sev.String())
	if score != nil && sev != models.SeverityUnknown {
		label = fmt.Sprintf("%1.1f %s", *score, label)
	}

	return severityStyle.Width(14).Background(severityColor[sev]).Render(label)
}

// RenderSeverityShort renders a compact badge for a severity.
func RenderSeverityShort(sev models.Severity) string {
	return severityStyle.Width(10).Background(severityColor[sev]).Render(strings.ToUpper(sev.String()))
}
