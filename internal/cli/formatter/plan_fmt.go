package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/timeline"
)

// FormatPlanList renders a project's plans, most recently updated first.
func FormatPlanList(plans []*domain.SchedulePlan) string {
	headers := []string{"PLAN", "TYPE", "VISIBILITY", "UPDATED"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			StyleGreen.Render(ShortID(p.ID)),
			PlanTypePill(p.Type),
			SharedBadge(p.Shared),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPlanHeader is the one-line title of a rendered plan.
func FormatPlanHeader(project *domain.Project, plan domain.SchedulePlan) string {
	parts := []string{
		StyleGreen.Render(project.DisplayID()),
		Bold(project.Name),
		PlanTypePill(plan.Type),
		SharedBadge(plan.Shared),
	}
	if !plan.UpdatedAt.IsZero() {
		parts = append(parts, Dim("updated "+plan.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return strings.Join(parts, "  ")
}

// FormatMilestones renders disbursement milestones with their running total.
func FormatMilestones(ms []domain.Milestone) string {
	if len(ms) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		window := Dim("—")
		if m.StartDate != nil && m.EndDate != nil {
			window = FormatDateRange(*m.StartDate, *m.EndDate)
		}
		rows = append(rows, []string{m.Label, m.Scope, FormatPercent(m.Percentage), RenderProgress(m.Accumulated, 10), window})
	}
	return Header("Milestones") + "\n" +
		RenderTable([]string{"MILESTONE", "SCOPE", "%", "ACCUMULATED", "WINDOW"}, rows, 2)
}

// FormatSchedule renders a full plan for non-interactive output: header,
// chart and milestones.
func FormatSchedule(project *domain.Project, s *domain.Schedule, width int, now time.Time, severity map[int]domain.AlertSeverity) (string, error) {
	layout, err := timeline.LayoutItems(s.Items)
	if err != nil {
		return "", fmt.Errorf("laying out plan: %w", err)
	}

	var b strings.Builder
	b.WriteString(FormatPlanHeader(project, s.Plan))
	b.WriteString("\n")
	if !layout.Empty() {
		b.WriteString(Dim(fmt.Sprintf("%d items  %s  %d weeks",
			len(s.Items), FormatDateRange(layout.Span.Start, layout.Span.End), len(layout.Grid.Weeks))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderGantt(layout, s.Items, GanttOptions{Width: width, Now: now, Severity: severity}))
	if ms := FormatMilestones(s.Milestones); ms != "" {
		b.WriteString("\n\n")
		b.WriteString(ms)
	}
	return b.String(), nil
}
