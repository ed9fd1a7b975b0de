package store

import (
	"context"
	"sync"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Memory is an in-memory Store for tests and dry runs. The mutex makes
// each key's insert-if-absent atomic across goroutines.
type Memory struct {
	mu    sync.Mutex
	txns  map[Key]model.Transaction
	order []Key
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{txns: make(map[Key]model.Transaction)}
}

// UpsertIfAbsent inserts txn unless key already exists.
func (m *Memory) UpsertIfAbsent(_ context.Context, key Key, txn model.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.txns[key]; exists {
		return false, nil
	}
	m.txns[key] = txn
	m.order = append(m.order, key)
	return true, nil
}

// Get returns the stored transaction for key.
func (m *Memory) Get(key Key) (model.Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.txns[key]
	return txn, ok
}

// All returns stored transactions in insertion order.
func (m *Memory) All() []model.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Transaction, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.txns[key])
	}
	return out
}

// Len returns the number of stored transactions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txns)
}
