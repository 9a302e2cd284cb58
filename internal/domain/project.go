package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Short IDs are a site code and a sequence number, e.g. CASA01 or TORRE0234.
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Project struct {
	ID        string
	ShortID   string
	Name      string
	Client    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeShortID upper-cases and trims user input so lookups and storage
// agree on one spelling.
func NormalizeShortID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate checks the fields a project must have before it is stored.
// ShortID is expected to be normalized already.
func (p *Project) Validate() error {
	switch {
	case p.ShortID == "":
		return fmt.Errorf("%w: short ID is required", ErrInvalidProject)
	case !shortIDPattern.MatchString(p.ShortID):
		return fmt.Errorf("%w: short ID %q must be 3-6 letters followed by 2-4 digits, e.g. CASA01",
			ErrInvalidProject, p.ShortID)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	return nil
}

// DisplayID is the short ID, or the first 8 characters of ID for projects
// created without one.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	return p.ID[:min(len(p.ID), 8)]
}

// CostCategory is a budget line; schedule items are grouped by category.
type CostCategory struct {
	ID         string
	ProjectID  string
	Name       string
	Budget     float64
	OrderIndex int
	CreatedAt  time.Time
}
