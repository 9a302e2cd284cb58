package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScheduleFile is the top-level structure of a schedule import file.
type ScheduleFile struct {
	Project    ProjectImport     `json:"project" yaml:"project"`
	Plan       PlanImport        `json:"plan" yaml:"plan"`
	Categories []CategoryImport  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Items      []ItemImport      `json:"items" yaml:"items"`
	Milestones []MilestoneImport `json:"milestones,omitempty" yaml:"milestones,omitempty"`
}

// ProjectImport identifies the target project. Name and client are only used
// when the project does not exist yet.
type ProjectImport struct {
	ShortID string `json:"short_id" yaml:"short_id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Client  string `json:"client,omitempty" yaml:"client,omitempty"`
}

type PlanImport struct {
	Type   string `json:"type" yaml:"type"`
	Shared bool   `json:"shared,omitempty" yaml:"shared,omitempty"`
}

// CategoryImport declares a cost category budget. Categories referenced by
// items but not declared here are created with a zero budget.
type CategoryImport struct {
	Name   string  `json:"name" yaml:"name"`
	Budget float64 `json:"budget,omitempty" yaml:"budget,omitempty"`
}

type ItemImport struct {
	Category string `json:"category" yaml:"category"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
}

type MilestoneImport struct {
	Label      string  `json:"label" yaml:"label"`
	Scope      string  `json:"scope,omitempty" yaml:"scope,omitempty"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Start      *string `json:"start,omitempty" yaml:"start,omitempty"`
	End        *string `json:"end,omitempty" yaml:"end,omitempty"`
}

// LoadScheduleFile reads a schedule file; ".json" files are parsed as JSON,
// anything else as YAML.
func LoadScheduleFile(path string) (*ScheduleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*ScheduleFile, error) {
	var f ScheduleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}
	return &f, nil
}

func ParseJSON(data []byte) (*ScheduleFile, error) {
	var f ScheduleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}
	return &f, nil
}
