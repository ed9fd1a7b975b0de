// Package store persists normalized transactions with insert-if-absent
// semantics keyed by (tenant, account, dedupe hash). A key conflict is the
// expected outcome of deduplication, never an error.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Key is the composite natural key the store must hold unique.
type Key struct {
	TenantID   string
	AccountID  string
	DedupeHash string
}

// KeyFor returns the natural key of a transaction.
func KeyFor(txn model.Transaction) Key {
	return Key{TenantID: txn.TenantID, AccountID: txn.AccountID, DedupeHash: txn.DedupeHash}
}

// Result aggregates counts from a bulk persist. Modified stays zero under
// insert-if-absent; it is reported for parity with stores that expose it.
type Result struct {
	Inserted int
	Matched  int
	Modified int
}

// Store is the durable backend. UpsertIfAbsent must be atomic per key with
// respect to concurrent writers, so overlapping imports converge to one
// record per fingerprint; it returns true when the record was inserted and
// false when a record with the key already existed (the original wins).
type Store interface {
	UpsertIfAbsent(ctx context.Context, key Key, txn model.Transaction) (bool, error)
}

// Sink performs idempotent bulk persistence of ingested candidates.
type Sink struct {
	store Store
	log   zerolog.Logger
}

// NewSink creates a Sink writing to st.
func NewSink(st Store, log zerolog.Logger) *Sink {
	return &Sink{store: st, log: log}
}

// Persist writes every candidate with insert-if-absent semantics and
// returns aggregate counts. Rows in a batch carry no ordering guarantee
// relative to each other. An empty batch is a no-op with zero counts.
func (s *Sink) Persist(ctx context.Context, txns []model.Transaction) (Result, error) {
	var res Result
	for _, txn := range txns {
		inserted, err := s.store.UpsertIfAbsent(ctx, KeyFor(txn), txn)
		if err != nil {
			return res, fmt.Errorf("upserting transaction %s: %w", txn.DedupeHash, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Matched++
		}
	}
	s.log.Debug().
		Int("inserted", res.Inserted).
		Int("matched", res.Matched).
		Msg("persisted batch")
	return res, nil
}
