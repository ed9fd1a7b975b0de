package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/categorize"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Currency = "EUR"
	cfg.Categories = append(cfg.Categories, categorize.Entry{Pattern: `lidl`, Category: "groceries"})

	path := filepath.Join(t.TempDir(), "bankfeed.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "EUR", got.Defaults.Currency)
	assert.Equal(t, cfg.Store.Path, got.Store.Path)
	require.Len(t, got.Categories, len(cfg.Categories))
	assert.Equal(t, "lidl", got.Categories[len(got.Categories)-1].Pattern)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "USD", cfg.Defaults.Currency)
	assert.Equal(t, "transactions.csv", cfg.Store.Path)
	assert.Equal(t, categorize.DefaultEntries(), cfg.Categories)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankfeed.yaml")
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "path: transactions.csv")
	assert.Contains(t, contents, "category: coffee")
}

func TestDefaultCategoriesCompile(t *testing.T) {
	_, err := categorize.NewTable(Default().Categories)
	assert.NoError(t, err)
}
