package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vizr-mcp/internal/bucket"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDefinition = errors.New("invalid chart definition")

// Definition is a saved chart configuration.
type Definition struct {
	ID           string         `json:"id" yaml:"id"`
	Title        string         `json:"title" yaml:"title"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Field        string         `json:"field" yaml:"field"`                 // date field
	Group        string         `json:"group" yaml:"group"`                 // optional group field
	Start        string         `json:"start" yaml:"start"`                 // blank: earliest record
	End          string         `json:"end" yaml:"end"`                     // target end date
	ChartEnd     string         `json:"chartEnd" yaml:"chartEnd"`           // blank: today
	DateInterval string         `json:"dateInterval" yaml:"dateInterval"`   // day, week, month, year
	Targets      map[string]any `json:"targets" yaml:"targets"`
	HideLegend   bool           `json:"hide_legend,omitempty" yaml:"hide_legend,omitempty"`
}

// NewDefinition returns a blank definition with a fresh id and an ungrouped target slot.
func NewDefinition() Definition {
	return Definition{
		ID:      uuid.NewString(),
		Targets: DefaultTargets(),
	}
}

// DefaultTargets is the target configuration of a chart without a group field.
func DefaultTargets() map[string]any {
	return map[string]any{string(bucket.NoGroups): nil}
}

// TargetsWithGroups returns an unset target for every group.
func TargetsWithGroups(groups []string) map[string]any {
	targets := make(map[string]any, len(groups))
	for _, g := range groups {
		targets[g] = nil
	}
	return targets
}

// Validate checks the fields the builder cannot default.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Field) == "" {
		return fmt.Errorf("%w: chart %q has no date field", ErrInvalidDefinition, d.ID)
	}
	return nil
}

// File is the on-disk collection of chart definitions.
type File struct {
	Charts []Definition `json:"charts" yaml:"charts"`
}

// LoadDefinitions reads chart definitions from a JSON or YAML file. Definitions without
// an id are assigned one.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart definitions: %w", err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart definitions %s: %w", path, err)
	}

	for i := range f.Charts {
		if f.Charts[i].ID == "" {
			f.Charts[i].ID = uuid.NewString()
		}
		if f.Charts[i].Targets == nil && f.Charts[i].Group == "" {
			f.Charts[i].Targets = DefaultTargets()
		}
	}
	return f.Charts, nil
}

// Find returns the definition with the given id.
func Find(defs []Definition, id string) (Definition, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
