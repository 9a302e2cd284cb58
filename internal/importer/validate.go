package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateScheduleFile checks the file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateScheduleFile(f *ScheduleFile) []error {
	var errs []error

	if f.Project.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	}
	if _, err := domain.ParsePlanType(f.Plan.Type); err != nil {
		errs = append(errs, fmt.Errorf("plan.type: %w", err))
	}

	declared := make(map[string]bool)
	for i, c := range f.Categories {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("categories[%d].name is required", i))
		case declared[key]:
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate name %q", i, c.Name))
		}
		if c.Budget < 0 {
			errs = append(errs, fmt.Errorf("categories[%d].budget must not be negative", i))
		}
		declared[key] = true
	}

	for i, it := range f.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.Category) == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		}
		start, startErr := parseDate(prefix+".start", it.Start)
		if startErr != nil {
			errs = append(errs, startErr)
		}
		end, endErr := parseDate(prefix+".end", it.End)
		if endErr != nil {
			errs = append(errs, endErr)
		}
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s: end %s before start %s", prefix, it.End, it.Start))
		}
	}

	var total float64
	for i, m := range f.Milestones {
		prefix := fmt.Sprintf("milestones[%d]", i)
		if m.Label == "" {
			errs = append(errs, fmt.Errorf("%s.label is required", prefix))
		}
		if m.Percentage < 0 || m.Percentage > 100 {
			errs = append(errs, fmt.Errorf("%s.percentage %.2f out of range [0,100]", prefix, m.Percentage))
		}
		total += m.Percentage
		var start, end time.Time
		var startErr, endErr error
		if m.Start != nil {
			start, startErr = parseDate(prefix+".start", *m.Start)
			if startErr != nil {
				errs = append(errs, startErr)
			}
		}
		if m.End != nil {
			end, endErr = parseDate(prefix+".end", *m.End)
			if endErr != nil {
				errs = append(errs, endErr)
			}
		}
		if m.Start != nil && m.End != nil && startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s: end before start", prefix))
		}
	}
	if total > 100.0001 {
		errs = append(errs, fmt.Errorf("milestone percentages add up to %.2f (max 100)", total))
	}

	return errs
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}
