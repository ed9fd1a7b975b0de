// Package categorize assigns a low-confidence spending category to a
// transaction by matching its raw description against an ordered table of
// merchant patterns. The table is an immutable value injected at
// construction, so tenants can carry their own pattern sets.
package categorize

import (
	"fmt"
	"regexp"
)

// MatchConfidence is the fixed confidence assigned to every pattern match.
// It stays below 1.0 so downstream rule actions always take precedence.
const MatchConfidence = 0.7

// Entry pairs a case-insensitive regular expression with a category label.
type Entry struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

// Table is a compiled, ordered pattern table. Safe for concurrent use.
type Table struct {
	patterns []compiled
}

type compiled struct {
	re       *regexp.Regexp
	category string
}

// NewTable compiles entries into a Table. Declaration order is match order.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{patterns: make([]compiled, 0, len(entries))}
	for _, e := range entries {
		re, err := regexp.Compile("(?i)" + e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", e.Pattern, err)
		}
		t.patterns = append(t.patterns, compiled{re: re, category: e.Category})
	}
	return t, nil
}

// DefaultEntries returns the built-in merchant pattern table.
func DefaultEntries() []Entry {
	return []Entry{
		{Pattern: `trader\s*joe`, Category: "groceries"},
		{Pattern: `whole\s*foods`, Category: "groceries"},
		{Pattern: `costco`, Category: "groceries"},
		{Pattern: `netflix`, Category: "subscriptions"},
		{Pattern: `spotify`, Category: "subscriptions"},
		{Pattern: `uber\s*eats`, Category: "dining"},
		{Pattern: `mcdonald`, Category: "dining"},
		{Pattern: `starbucks`, Category: "coffee"},
	}
}

// DefaultTable returns a Table compiled from DefaultEntries.
func DefaultTable() *Table {
	t, err := NewTable(DefaultEntries())
	if err != nil {
		panic(err) // built-in patterns are known good
	}
	return t
}

// Guess returns the category of the first pattern matching the raw
// description, with MatchConfidence. No match yields ("", 0).
func (t *Table) Guess(descriptionRaw string) (string, float64) {
	for _, p := range t.patterns {
		if p.re.MatchString(descriptionRaw) {
			return p.category, MatchConfidence
		}
	}
	return "", 0
}
