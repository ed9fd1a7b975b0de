// Package rules evaluates tenant-authored condition/action rules against a
// transaction. Rules are read-only input per evaluation; applying a rule
// produces a new transaction view and never mutates the original.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Op is a condition operator. The set is closed; anything else never matches.
type Op string

const (
	OpRegex    Op = "regex"    // unanchored search on the field's string value
	OpContains Op = "contains" // case-insensitive substring test
	OpGTE      Op = "gte"      // numeric >=, non-match on coercion failure
	OpLTE      Op = "lte"      // numeric <=, non-match on coercion failure
)

// ActionType identifies an action kind. Unknown types are ignored on apply.
type ActionType string

const (
	ActionSetCategory    ActionType = "set_category"
	ActionRenameMerchant ActionType = "rename_merchant"
	ActionAddTag         ActionType = "add_tag"
)

// Condition tests a single transaction field.
type Condition struct {
	Field string `yaml:"field"`
	Op    Op     `yaml:"op"`
	Value any    `yaml:"value"`
}

// Action describes one mutation a matching rule requests.
type Action struct {
	Type       ActionType `yaml:"type"`
	CategoryID string     `yaml:"category_id,omitempty"` // set_category
	To         string     `yaml:"to,omitempty"`           // rename_merchant
	Tag        string     `yaml:"tag,omitempty"`          // add_tag
}

// Rule is a tenant-authored override: all conditions must hold (an empty
// condition list matches everything), then the actions apply in order.
type Rule struct {
	Name       string      `yaml:"name,omitempty"`
	Priority   int         `yaml:"priority"` // lower sorts first
	Enabled    bool        `yaml:"enabled"`
	Conditions []Condition `yaml:"conditions,omitempty"`
	Actions    []Action    `yaml:"actions,omitempty"`
}

// SelectMatch returns the first enabled rule, in ascending priority order,
// whose every condition matches txn, or nil when none does. The sort is
// stable: equal-priority rules keep the order they were supplied in, which
// tenants rely on for deterministic overrides.
func SelectMatch(rs []Rule, txn model.Transaction) *Rule {
	ordered := make([]Rule, 0, len(rs))
	for _, r := range rs {
		if r.Enabled {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	for i := range ordered {
		if matches(ordered[i], txn) {
			return &ordered[i]
		}
	}
	return nil
}

// Apply returns a copy of txn with the rule's actions applied. Unknown
// action types are skipped.
func Apply(r Rule, txn model.Transaction) model.Transaction {
	out := txn
	for _, a := range r.Actions {
		switch a.Type {
		case ActionSetCategory:
			out.CategoryID = a.CategoryID
		case ActionRenameMerchant:
			out.MerchantNormalized = a.To
		case ActionAddTag:
			out = out.WithTag(a.Tag)
		}
	}
	return out
}

func matches(r Rule, txn model.Transaction) bool {
	for _, c := range r.Conditions {
		if !matchCondition(c, txn) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, txn model.Transaction) bool {
	fv := fieldString(txn, c.Field)
	switch c.Op {
	case OpRegex:
		re, err := regexp.Compile(asString(c.Value))
		if err != nil {
			// A malformed pattern degrades to "never matches".
			return false
		}
		return re.MatchString(fv)
	case OpContains:
		return strings.Contains(strings.ToLower(fv), strings.ToLower(asString(c.Value)))
	case OpGTE:
		f, cv, ok := coercePair(fv, c.Value)
		return ok && f >= cv
	case OpLTE:
		f, cv, ok := coercePair(fv, c.Value)
		return ok && f <= cv
	default:
		return false
	}
}

// fieldString resolves a condition field to its string representation.
// Missing or unknown fields resolve to "". Both the wire spellings and the
// short names tenants actually write are accepted.
func fieldString(txn model.Transaction, field string) string {
	switch field {
	case "merchant":
		return txn.MerchantNormalized
	case "description", "descriptionRaw":
		return txn.DescriptionRaw
	case "amount":
		return txn.Amount.String()
	case "category", "categoryId":
		return txn.CategoryID
	case "currency":
		return txn.Currency
	case "account", "accountId":
		return txn.AccountID
	case "tenant", "tenantId":
		return txn.TenantID
	case "posted_at", "postedAt":
		return txn.PostedAt
	default:
		return ""
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// coercePair converts the field value and the condition value to float64.
// Either side failing to coerce yields ok=false, which callers treat as a
// non-match rather than an error.
func coercePair(fieldValue string, condValue any) (f, cv float64, ok bool) {
	f, err := strconv.ParseFloat(fieldValue, 64)
	if err != nil {
		return 0, 0, false
	}
	cv, ok = asFloat(condValue)
	return f, cv, ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
