package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPriority is assigned to rules that omit priority. The original
// service disagreed with itself here (engine 1000, API schema 100); 100 is
// the canonical default.
const DefaultPriority = 100

// ruleDoc mirrors Rule with optional fields so absent values can be told
// apart from zero values when applying defaults.
type ruleDoc struct {
	Name       string      `yaml:"name"`
	Priority   *int        `yaml:"priority"`
	Enabled    *bool       `yaml:"enabled"`
	Conditions []Condition `yaml:"conditions"`
	Actions    []Action    `yaml:"actions"`
}

// Parse decodes a YAML list of rule definitions, applying defaults:
// priority 100 and enabled true when unset.
func Parse(data []byte) ([]Rule, error) {
	var docs []ruleDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	rs := make([]Rule, 0, len(docs))
	for _, d := range docs {
		r := Rule{
			Name:       d.Name,
			Priority:   DefaultPriority,
			Enabled:    true,
			Conditions: d.Conditions,
			Actions:    d.Actions,
		}
		if d.Priority != nil {
			r.Priority = *d.Priority
		}
		if d.Enabled != nil {
			r.Enabled = *d.Enabled
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Load reads and parses a YAML rules file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return Parse(data)
}
