package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStore_InsertAndDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	s, err := OpenCSV(path)
	require.NoError(t, err)

	ctx := context.Background()
	inserted, err := s.UpsertIfAbsent(ctx, KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.UpsertIfAbsent(ctx, KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.Equal(t, 1, s.Len())
}

func TestCSVStore_DedupesAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	ctx := context.Background()

	s, err := OpenCSV(path)
	require.NoError(t, err)
	_, err = s.UpsertIfAbsent(ctx, KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)
	_, err = s.UpsertIfAbsent(ctx, KeyFor(txn("h2")), txn("h2"))
	require.NoError(t, err)

	reopened, err := OpenCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	inserted, err := reopened.UpsertIfAbsent(ctx, KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestCSVStore_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	s, err := OpenCSV(path)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.UpsertIfAbsent(ctx, KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)
	_, err = s.UpsertIfAbsent(ctx, KeyFor(txn("h2")), txn("h2"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
}

func TestCSVStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "transactions.csv")
	s, err := OpenCSV(path)
	require.NoError(t, err)

	_, err = s.UpsertIfAbsent(context.Background(), KeyFor(txn("h1")), txn("h1"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestMarshalUnmarshalTransaction(t *testing.T) {
	in := txn("h1")
	in.MerchantNormalized = "STARBUCKS 123"
	in.DescriptionRaw = "STARBUCKS #123, SEATTLE"
	in.CategoryID = "coffee"
	in.CategoryConfidence = 0.7
	in.Tags = []string{"reviewed", "coffee-run"}

	out, err := UnmarshalTransaction(MarshalTransaction(in))
	require.NoError(t, err)
	assert.Equal(t, in.TenantID, out.TenantID)
	assert.Equal(t, in.DescriptionRaw, out.DescriptionRaw)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, 0.7, out.CategoryConfidence)
	assert.Equal(t, in.Tags, out.Tags)
	assert.False(t, out.IsPending)
}

func TestUnmarshalTransaction_BadRow(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"too", "short"})
	assert.Error(t, err)

	rec := MarshalTransaction(txn("h1"))
	rec[colAmount] = "NaN-ish"
	_, err = UnmarshalTransaction(rec)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestReadTransactions_EmptyFile(t *testing.T) {
	txns, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txns)
}
