package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/scheduler"
)

// AlertBadge renders one alert, e.g. "● OVERDUE 1 week" or "● 2 weeks left".
func AlertBadge(a scheduler.RiskAlert) string {
	style := SeverityStyle(a.Severity)
	if a.Severity == domain.SeverityOverdue {
		return style.Render("● OVERDUE " + FormatWeeks(a.Weeks))
	}
	return style.Render("● " + FormatWeeks(a.Weeks) + " left")
}

// SeverityByItem indexes item alerts for chart coloring.
func SeverityByItem(r scheduler.RiskReport) map[int]domain.AlertSeverity {
	out := make(map[int]domain.AlertSeverity, len(r.Items))
	for _, a := range r.Items {
		out[a.ItemIndex] = a.Severity
	}
	return out
}

// FormatRiskReport lists the plan-level alert and every flagged item.
func FormatRiskReport(r scheduler.RiskReport, thresholdWeeks int) string {
	var b strings.Builder
	b.WriteString(Header("Schedule risk"))
	b.WriteString("\n")

	if !r.HasAlerts() {
		b.WriteString(StyleGreen.Render("✔ ") +
			fmt.Sprintf("No items end within %s.", FormatWeeks(thresholdWeeks)))
		return b.String()
	}

	if r.Plan != nil {
		b.WriteString(fmt.Sprintf("Plan ends %s  %s\n\n", Bold(FormatDate(r.Plan.EndDate)), AlertBadge(*r.Plan)))
	}

	rows := make([][]string, 0, len(r.Items))
	for _, a := range r.Items {
		rows = append(rows, []string{Dim(fmt.Sprintf("%d", a.ItemIndex+1)), a.Label, FormatDate(a.EndDate), AlertBadge(a)})
	}
	b.WriteString(RenderTable([]string{"#", "CATEGORY", "ENDS", "STATUS"}, rows, 0))
	return strings.TrimRight(b.String(), "\n")
}

// RiskSummary is a one-line status for headers and status bars.
func RiskSummary(r scheduler.RiskReport) string {
	if !r.HasAlerts() {
		return StyleGreen.Render("on schedule")
	}
	var overdue, approaching int
	for _, a := range r.Items {
		if a.Severity == domain.SeverityOverdue {
			overdue++
		} else {
			approaching++
		}
	}
	var parts []string
	if overdue > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("%d overdue", overdue)))
	}
	if approaching > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d ending soon", approaching)))
	}
	return strings.Join(parts, Dim(", "))
}
