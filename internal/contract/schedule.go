package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// SaveScheduleRequest replaces the full item and milestone arrays of one plan.
// A Plan without ID is created. Item and milestone order is significant:
// OrderIndex is rewritten from slice position.
type SaveScheduleRequest struct {
	Plan       domain.SchedulePlan
	Items      []domain.ScheduleItem
	Milestones []domain.Milestone

	// IfUnmodifiedSince, when set, rejects the save with domain.ErrConflict
	// if the stored plan's UpdatedAt differs from it.
	IfUnmodifiedSince *time.Time
}

// NewSaveScheduleRequest builds an unguarded (last-writer-wins) request from
// a loaded or drafted schedule.
func NewSaveScheduleRequest(s domain.Schedule) SaveScheduleRequest {
	return SaveScheduleRequest{
		Plan:       s.Plan,
		Items:      s.Items,
		Milestones: s.Milestones,
	}
}

// Guarded returns a copy of r that only succeeds if the plan is unchanged
// since it was loaded. Requests for new plans are returned as-is.
func (r SaveScheduleRequest) Guarded() SaveScheduleRequest {
	if r.Plan.ID == "" || r.Plan.UpdatedAt.IsZero() {
		return r
	}
	at := r.Plan.UpdatedAt
	r.IfUnmodifiedSince = &at
	return r
}

// Validate checks the request before any write happens.
func (r SaveScheduleRequest) Validate() error {
	if r.Plan.ProjectID == "" {
		return fmt.Errorf("plan project is required")
	}
	if !r.Plan.Type.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPlanType, r.Plan.Type)
	}
	for i, item := range r.Items {
		item.OrderIndex = i
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for i, m := range r.Milestones {
		m.OrderIndex = i
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}
