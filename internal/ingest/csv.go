// Package ingest parses raw bank CSV exports into normalized transaction
// candidates and orchestrates their persistence.
package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/categorize"
	"github.com/bankfeed-dev/bankfeed/internal/fingerprint"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/normalize"
)

// DefaultCurrency applies when neither the caller nor the config names one.
const DefaultCurrency = "USD"

// Column aliases, first match wins.
var (
	dateAliases   = []string{"Date", "Posted", "posted_at"}
	amountAliases = []string{"Amount", "amount"}
	descAliases   = []string{"Description", "Payee", "Memo"}
)

// RowWarning reports a per-row data-quality problem that was defaulted
// rather than failing the import.
type RowWarning struct {
	Row     int // 1-based data row number, excluding the header
	Field   string
	Message string
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d: %s: %s", w.Row, w.Field, w.Message)
}

// Parser converts bank CSV bytes into transaction candidates.
type Parser struct {
	table    *categorize.Table
	currency string
}

// NewParser creates a Parser using the given category table and fallback
// currency ("" means DefaultCurrency).
func NewParser(table *categorize.Table, defaultCurrency string) *Parser {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &Parser{table: table, currency: defaultCurrency}
}

// Parse decodes raw as best-effort UTF-8, parses a header-driven delimited
// table, and returns one candidate per data row in file order. A missing or
// unparsable amount defaults to zero and a missing description to "", each
// recorded as a RowWarning; no single bad row aborts the import. The error
// return covers only input the CSV reader cannot recover from.
func (p *Parser) Parse(raw []byte, tenantID, accountID, currency string) ([]model.Transaction, []RowWarning, error) {
	if currency == "" {
		currency = p.currency
	}

	// Invalid byte sequences are dropped, not fatal.
	text := strings.ToValidUTF8(string(raw), "")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading bank CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil, nil
	}

	dateCol := resolveColumn(records[0], dateAliases)
	amountCol := resolveColumn(records[0], amountAliases)
	descCol := resolveColumn(records[0], descAliases)

	var txns []model.Transaction
	var warnings []RowWarning
	for i, rec := range records[1:] {
		row := i + 1

		postedAt := cell(rec, dateCol)
		desc := cell(rec, descCol)

		amount := decimal.Zero
		rawAmount := strings.TrimSpace(cell(rec, amountCol))
		if rawAmount == "" {
			warnings = append(warnings, RowWarning{Row: row, Field: "amount", Message: "missing, defaulted to 0.00"})
		} else if parsed, err := decimal.NewFromString(rawAmount); err != nil {
			warnings = append(warnings, RowWarning{Row: row, Field: "amount",
				Message: fmt.Sprintf("unparsable %q, defaulted to 0.00", rawAmount)})
		} else {
			amount = parsed
		}

		merchant := normalize.Merchant(desc)
		categoryID, confidence := p.table.Guess(desc)

		txns = append(txns, model.Transaction{
			TenantID:           tenantID,
			AccountID:          accountID,
			PostedAt:           postedAt,
			Amount:             amount,
			Currency:           currency,
			MerchantNormalized: merchant,
			DescriptionRaw:     desc,
			CategoryID:         categoryID,
			CategoryConfidence: confidence,
			IsPending:          false,
			DedupeHash:         fingerprint.Fingerprint(accountID, postedAt, amount, merchant, desc),
		})
	}
	return txns, warnings, nil
}

// resolveColumn returns the index of the first alias present in the header,
// or -1 when none is.
func resolveColumn(header, aliases []string) int {
	for _, alias := range aliases {
		for i, name := range header {
			if strings.TrimSpace(name) == alias {
				return i
			}
		}
	}
	return -1
}

// cell returns the field at idx, or "" when the column is unresolved or the
// row is short.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
