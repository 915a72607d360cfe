package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// Report styling. Colours follow severity so gap and conflict output
// can be scanned quickly.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)

	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))  // red
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))           // orange
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	pendingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // yellow
)

// renderSeverity colours a severity tier.
func renderSeverity(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return criticalStyle.Render(string(sev))
	case domain.SeverityHigh:
		return highStyle.Render(string(sev))
	case domain.SeverityMedium:
		return mediumStyle.Render(string(sev))
	case domain.SeverityNone:
		return okStyle.Render(string(sev))
	}
	return string(sev)
}

// renderStatus colours a conflict lifecycle state.
func renderStatus(status domain.ResolutionStatus) string {
	switch status {
	case domain.ResolutionPending:
		return pendingStyle.Render(string(status))
	case domain.ResolutionResolved:
		return okStyle.Render(string(status))
	case domain.ResolutionDismissed, domain.ResolutionDeferred:
		return dimStyle.Render(string(status))
	}
	return string(status)
}
