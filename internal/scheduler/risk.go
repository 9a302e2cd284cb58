package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// DefaultThresholdWeeks is how many weeks before an end date an item is
// flagged as approaching.
const DefaultThresholdWeeks = 2

const week = 7 * 24 * time.Hour

type RiskInput struct {
	Now   time.Time
	Items []domain.ScheduleItem
	// ThresholdWeeks <= 0 means DefaultThresholdWeeks.
	ThresholdWeeks int
}

type RiskAlert struct {
	Scope    domain.AlertScope
	Severity domain.AlertSeverity
	// Weeks is the number of weeks remaining for approaching alerts and the
	// overrun magnitude for overdue alerts.
	Weeks   int
	EndDate time.Time

	// Item-level only.
	ItemIndex  int
	CategoryID string
	Label      string
}

type RiskReport struct {
	Plan  *RiskAlert
	Items []RiskAlert
}

// HasAlerts reports whether anything was flagged.
func (r RiskReport) HasAlerts() bool {
	return r.Plan != nil || len(r.Items) > 0
}

// WeeksRemaining returns ceil((end - now) / 7 days). Negative results mean
// the end date has passed.
func WeeksRemaining(end, now time.Time) int {
	return int(math.Ceil(float64(end.Sub(now)) / float64(week)))
}

// classify returns the severity and week count for one end date, or ok=false
// when the date is outside the threshold window.
func classify(end, now time.Time, threshold int) (domain.AlertSeverity, int, bool) {
	if end.Before(now) {
		overrun := int(math.Ceil(float64(now.Sub(end)) / float64(week)))
		return domain.SeverityOverdue, overrun, true
	}
	weeks := WeeksRemaining(end, now)
	if weeks <= threshold {
		return domain.SeverityApproaching, weeks, true
	}
	return "", 0, false
}

// EvaluateRisk flags the plan as a whole (by its latest end date) and each
// item individually. It is pure: the verdict depends only on the input.
func EvaluateRisk(input RiskInput) RiskReport {
	threshold := input.ThresholdWeeks
	if threshold <= 0 {
		threshold = DefaultThresholdWeeks
	}

	var report RiskReport
	if len(input.Items) == 0 {
		return report
	}

	latest := input.Items[0].EndDate
	for _, item := range input.Items[1:] {
		if item.EndDate.After(latest) {
			latest = item.EndDate
		}
	}
	if sev, weeks, ok := classify(latest, input.Now, threshold); ok {
		report.Plan = &RiskAlert{
			Scope:    domain.AlertScopePlan,
			Severity: sev,
			Weeks:    weeks,
			EndDate:  latest,
		}
	}

	for i, item := range input.Items {
		sev, weeks, ok := classify(item.EndDate, input.Now, threshold)
		if !ok {
			continue
		}
		report.Items = append(report.Items, RiskAlert{
			Scope:      domain.AlertScopeItem,
			Severity:   sev,
			Weeks:      weeks,
			EndDate:    item.EndDate,
			ItemIndex:  i,
			CategoryID: item.CategoryID,
			Label:      item.Label(),
		})
	}
	return report
}
