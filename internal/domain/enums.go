package domain

import "fmt"

// PlanType classifies a schedule plan.
type PlanType string

const (
	PlanParametric PlanType = "parametric"
	PlanExecutive  PlanType = "executive"
)

// ValidPlanTypes is the canonical set of accepted plan type strings.
var ValidPlanTypes = map[string]bool{
	"parametric": true, "executive": true,
}

// Valid reports whether t is a known plan type.
func (t PlanType) Valid() bool {
	return ValidPlanTypes[string(t)]
}

// ParsePlanType converts user input into a PlanType.
func ParsePlanType(s string) (PlanType, error) {
	t := PlanType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (want parametric or executive)", ErrInvalidPlanType, s)
	}
	return t, nil
}

type AlertScope string

const (
	AlertScopePlan AlertScope = "plan"
	AlertScopeItem AlertScope = "item"
)

type AlertSeverity string

const (
	SeverityApproaching AlertSeverity = "approaching"
	SeverityOverdue     AlertSeverity = "overdue"
)
