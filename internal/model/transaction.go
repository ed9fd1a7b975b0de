package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized bank transaction candidate produced by
// ingestion. It is immutable once handed to the store; rule application
// returns a modified copy rather than mutating in place.
type Transaction struct {
	TenantID           string
	AccountID          string
	PostedAt           string // date as presented by the source, not validated
	Amount             decimal.Decimal
	Currency           string
	MerchantNormalized string // "" if the raw description was empty
	DescriptionRaw     string
	CategoryID         string  // "" = no guess
	CategoryConfidence float64 // in [0, 1]; 0 means no guess
	IsPending          bool
	DedupeHash         string
	Tags               []string // set semantics: unique, order not significant
}

// HasTag reports whether the transaction carries the given tag.
func (t Transaction) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// WithTag returns a copy of the transaction with tag added to its tag set.
// Adding an existing tag is a no-op.
func (t Transaction) WithTag(tag string) Transaction {
	out := t
	out.Tags = slices.Clone(t.Tags)
	if tag != "" && !slices.Contains(out.Tags, tag) {
		out.Tags = append(out.Tags, tag)
	}
	return out
}
