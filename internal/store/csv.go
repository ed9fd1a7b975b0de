package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Header is the CSV header for the transactions file.
const Header = "tenant_id,account_id,posted_at,amount,currency,merchant,description,category_id,category_confidence,is_pending,dedupe_hash,tags"

const (
	numFields     = 12
	colTenantID   = 0
	colAccountID  = 1
	colPostedAt   = 2
	colAmount     = 3
	colCurrency   = 4
	colMerchant   = 5
	colDesc       = 6
	colCategoryID = 7
	colConfidence = 8
	colPending    = 9
	colDedupeHash = 10
	colTags       = 11
)

// CSVStore is a Store backed by a single CSV file. The full key set loads
// at open; inserts append a row immediately so repeated CLI imports dedupe
// across runs. One process at a time; the mutex covers in-process callers.
type CSVStore struct {
	path string

	mu   sync.Mutex
	keys map[Key]struct{}
}

// OpenCSV opens (or lazily creates) a CSV-backed store at path.
func OpenCSV(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, keys: make(map[Key]struct{})}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions file %s: %w", path, err)
	}
	for _, txn := range txns {
		s.keys[KeyFor(txn)] = struct{}{}
	}
	return s, nil
}

// UpsertIfAbsent appends txn to the file unless key already exists.
func (s *CSVStore) UpsertIfAbsent(_ context.Context, key Key, txn model.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key]; exists {
		return false, nil
	}

	if err := s.appendRow(txn); err != nil {
		return false, err
	}
	s.keys[key] = struct{}{}
	return true, nil
}

// Len returns the number of stored keys.
func (s *CSVStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func (s *CSVStore) appendRow(txn model.Transaction) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating store dir: %w", err)
		}
	}

	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening transactions file: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalTransaction(txn)); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads all transactions from a CSV reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colTenantID] = txn.TenantID
	row[colAccountID] = txn.AccountID
	row[colPostedAt] = txn.PostedAt
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCurrency] = txn.Currency
	row[colMerchant] = txn.MerchantNormalized
	row[colDesc] = txn.DescriptionRaw
	row[colCategoryID] = txn.CategoryID
	if txn.CategoryConfidence != 0 {
		row[colConfidence] = strconv.FormatFloat(txn.CategoryConfidence, 'f', -1, 64)
	}
	row[colPending] = strconv.FormatBool(txn.IsPending)
	row[colDedupeHash] = txn.DedupeHash
	row[colTags] = strings.Join(txn.Tags, ";")
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var confidence float64
	if record[colConfidence] != "" {
		confidence, err = strconv.ParseFloat(record[colConfidence], 64)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing category_confidence %q: %w", record[colConfidence], err)
		}
	}

	pending, err := strconv.ParseBool(record[colPending])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing is_pending %q: %w", record[colPending], err)
	}

	var tags []string
	if record[colTags] != "" {
		tags = strings.Split(record[colTags], ";")
	}

	return model.Transaction{
		TenantID:           record[colTenantID],
		AccountID:          record[colAccountID],
		PostedAt:           record[colPostedAt],
		Amount:             amount,
		Currency:           record[colCurrency],
		MerchantNormalized: record[colMerchant],
		DescriptionRaw:     record[colDesc],
		CategoryID:         record[colCategoryID],
		CategoryConfidence: confidence,
		IsPending:          pending,
		DedupeHash:         record[colDedupeHash],
		Tags:               tags,
	}, nil
}
