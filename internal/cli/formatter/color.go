package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Site palette: safety colors for status, concrete grays for chrome.
var (
	ColorGreen  = lipgloss.Color("#4caf50")
	ColorYellow = lipgloss.Color("#ffc107")
	ColorRed    = lipgloss.Color("#e53935")
	ColorBlue   = lipgloss.Color("#4fa3d1")
	ColorPurple = lipgloss.Color("#9575cd")
	ColorDim    = lipgloss.Color("#8a8d91")
	ColorFg     = lipgloss.Color("#e8e6e3")
	ColorHeader = lipgloss.Color("#ff7a00")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = StyleFg.Bold(true)
)

// SeverityStyle returns the style for a risk severity. An empty severity
// means on schedule.
func SeverityStyle(s domain.AlertSeverity) lipgloss.Style {
	switch s {
	case domain.SeverityOverdue:
		return StyleRed
	case domain.SeverityApproaching:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// PlanTypePill renders a plan type as a short colored label.
func PlanTypePill(t domain.PlanType) string {
	switch t {
	case domain.PlanExecutive:
		return StyleBlue.Render("EXECUTIVE")
	case domain.PlanParametric:
		return StylePurple.Render("PARAMETRIC")
	default:
		return StyleDim.Render(strings.ToUpper(string(t)))
	}
}

// SharedBadge marks a plan visible to the client.
func SharedBadge(shared bool) string {
	if shared {
		return StyleGreen.Render("● shared")
	}
	return StyleDim.Render("○ private")
}

// Header is an upper-cased section title underlined to its width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(title))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(title), StyleDim.Render(rule))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
