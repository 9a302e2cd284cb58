package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
	"github.com/google/uuid"
)

// Option tweaks a fixture after its defaults are set.
type Option[T any] func(*T)

type (
	ProjectOption  = Option[domain.Project]
	CategoryOption = Option[domain.CostCategory]
	PlanOption     = Option[domain.SchedulePlan]
)

func build[T any](v *T, opts []Option[T]) *T {
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Date returns midnight UTC of the given civil date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func WithShortID(id string) ProjectOption { return func(p *domain.Project) { p.ShortID = id } }
func WithClient(c string) ProjectOption   { return func(p *domain.Project) { p.Client = c } }
func WithBudget(b float64) CategoryOption { return func(c *domain.CostCategory) { c.Budget = b } }
func WithCategoryOrder(i int) CategoryOption {
	return func(c *domain.CostCategory) { c.OrderIndex = i }
}
func WithShared() PlanOption               { return func(p *domain.SchedulePlan) { p.Shared = true } }
func WithUpdatedAt(t time.Time) PlanOption { return func(p *domain.SchedulePlan) { p.UpdatedAt = t } }

var shortIDSeq atomic.Int64

// shortIDFor makes a valid, unique short ID from the first three letters of
// name, padded with X: "Casa Norte" -> CAS01, CAS02, ...
func shortIDFor(name string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, strings.ToUpper(name))
	prefix = (prefix + "XXX")[:3]
	return fmt.Sprintf("%s%02d", prefix, shortIDSeq.Add(1))
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	return build(&domain.Project{
		ID:        uuid.NewString(),
		ShortID:   shortIDFor(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, opts)
}

func NewTestCategory(projectID, name string, opts ...CategoryOption) *domain.CostCategory {
	return build(&domain.CostCategory{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, opts)
}

func NewTestPlan(projectID string, t domain.PlanType, opts ...PlanOption) *domain.SchedulePlan {
	now := time.Now().UTC()
	return build(&domain.SchedulePlan{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Type:      t,
		CreatedAt: now,
		UpdatedAt: now,
	}, opts)
}

// NewTestItem builds an unsaved item; the save path assigns PlanID, ID and
// OrderIndex.
func NewTestItem(categoryID string, start, end time.Time) domain.ScheduleItem {
	return domain.ScheduleItem{CategoryID: categoryID, StartDate: start, EndDate: end}
}

func NewTestMilestone(label string, pct float64) domain.Milestone {
	return domain.Milestone{Label: label, Percentage: pct}
}
