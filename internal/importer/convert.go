package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// ConvertedSchedule is a validated file turned into domain values. Items carry
// CategoryName only; the caller resolves category IDs against the store.
type ConvertedSchedule struct {
	ShortID     string
	ProjectName string
	Client      string
	PlanType    domain.PlanType
	Shared      bool
	Categories  []domain.CostCategory
	Items       []domain.ScheduleItem
	Milestones  []domain.Milestone
}

// Convert transforms a validated ScheduleFile into domain values.
// Call ValidateScheduleFile first; Convert assumes the file is valid.
func Convert(f *ScheduleFile) (*ConvertedSchedule, error) {
	planType, err := domain.ParsePlanType(f.Plan.Type)
	if err != nil {
		return nil, err
	}
	out := &ConvertedSchedule{
		ShortID:     domain.NormalizeShortID(f.Project.ShortID),
		ProjectName: f.Project.Name,
		Client:      f.Project.Client,
		PlanType:    planType,
		Shared:      f.Plan.Shared,
	}
	if out.ProjectName == "" {
		out.ProjectName = out.ShortID
	}

	// Declared categories first, then any referenced only by items, in order
	// of first appearance.
	seen := make(map[string]bool)
	addCategory := func(name string, budget float64) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		out.Categories = append(out.Categories, domain.CostCategory{
			Name:       name,
			Budget:     budget,
			OrderIndex: len(out.Categories),
		})
	}
	for _, c := range f.Categories {
		addCategory(c.Name, c.Budget)
	}

	for i, it := range f.Items {
		start, err := time.Parse(dateLayout, it.Start)
		if err != nil {
			return nil, fmt.Errorf("items[%d].start: %w", i, err)
		}
		end, err := time.Parse(dateLayout, it.End)
		if err != nil {
			return nil, fmt.Errorf("items[%d].end: %w", i, err)
		}
		addCategory(it.Category, 0)
		out.Items = append(out.Items, domain.ScheduleItem{
			CategoryName: strings.TrimSpace(it.Category),
			StartDate:    start,
			EndDate:      end,
			OrderIndex:   i,
		})
	}

	for i, m := range f.Milestones {
		ms := domain.Milestone{
			Label:      m.Label,
			Scope:      m.Scope,
			Percentage: m.Percentage,
			OrderIndex: i,
		}
		if m.Start != nil {
			t, err := time.Parse(dateLayout, *m.Start)
			if err != nil {
				return nil, fmt.Errorf("milestones[%d].start: %w", i, err)
			}
			ms.StartDate = &t
		}
		if m.End != nil {
			t, err := time.Parse(dateLayout, *m.End)
			if err != nil {
				return nil, fmt.Errorf("milestones[%d].end: %w", i, err)
			}
			ms.EndDate = &t
		}
		out.Milestones = append(out.Milestones, ms)
	}
	domain.AccumulateMilestones(out.Milestones)

	return out, nil
}
