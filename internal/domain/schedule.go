package domain

import (
	"fmt"
	"time"
)

// Day normalizes t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SchedulePlan is the header of one schedule for one project and plan type.
type SchedulePlan struct {
	ID        string
	ProjectID string
	Type      PlanType
	Shared    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleItem is one bar of the schedule: a date range attached to a cost
// category. StartDate and EndDate are inclusive civil dates.
type ScheduleItem struct {
	ID         string
	PlanID     string
	CategoryID string
	StartDate  time.Time
	EndDate    time.Time
	OrderIndex int

	// Resolved from the cost category on load; never persisted with the item.
	CategoryName string
	Budget       float64
}

// Validate checks the item's date range.
func (i ScheduleItem) Validate() error {
	if i.CategoryID == "" {
		return fmt.Errorf("schedule item %d: cost category is required", i.OrderIndex)
	}
	if i.StartDate.IsZero() || i.EndDate.IsZero() {
		return fmt.Errorf("schedule item %d: start and end dates are required: %w", i.OrderIndex, ErrInvalidRange)
	}
	if i.EndDate.Before(i.StartDate) {
		return fmt.Errorf("schedule item %d: end %s before start %s: %w",
			i.OrderIndex, i.EndDate.Format("2006-01-02"), i.StartDate.Format("2006-01-02"), ErrInvalidRange)
	}
	return nil
}

// Label returns the display label of the item's cost category.
func (i ScheduleItem) Label() string {
	if i.CategoryName != "" {
		return i.CategoryName
	}
	return i.CategoryID
}

// Milestone is a disbursement marker ("ministration") of a plan.
type Milestone struct {
	ID          string
	PlanID      string
	Label       string
	Scope       string
	Percentage  float64
	Accumulated float64
	StartDate   *time.Time
	EndDate     *time.Time
	OrderIndex  int
}

// Validate checks the milestone's percentage and optional disbursement window.
func (m Milestone) Validate() error {
	if m.Label == "" {
		return fmt.Errorf("milestone %d: label is required", m.OrderIndex)
	}
	if m.Percentage < 0 || m.Percentage > 100 {
		return fmt.Errorf("milestone %q: percentage %.2f out of range [0,100]", m.Label, m.Percentage)
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("milestone %q: end before start: %w", m.Label, ErrInvalidRange)
	}
	return nil
}

// AccumulateMilestones recomputes Accumulated as the running sum of
// Percentage in slice order.
func AccumulateMilestones(ms []Milestone) {
	var total float64
	for i := range ms {
		total += ms[i].Percentage
		ms[i].Accumulated = total
	}
}

// Schedule is a plan together with its ordered items and milestones.
type Schedule struct {
	Plan       SchedulePlan
	Items      []ScheduleItem
	Milestones []Milestone
}

// Extent returns the earliest item start and the latest item end.
// ok is false when the schedule has no items.
func (s *Schedule) Extent() (start, end time.Time, ok bool) {
	for i, item := range s.Items {
		if i == 0 || item.StartDate.Before(start) {
			start = item.StartDate
		}
		if i == 0 || item.EndDate.After(end) {
			end = item.EndDate
		}
	}
	return start, end, len(s.Items) > 0
}
