// Package fingerprint computes the content-addressed dedupe hash that
// identifies a bank transaction across imports.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Fingerprint returns the deterministic dedupe hash for a transaction.
// The key joins account ID, posted-at value as given, the amount fixed to
// two decimals, the normalized merchant ("" if absent), and the raw
// description ("" if absent) with a literal pipe, then hashes it with
// SHA-256 (lowercase hex).
//
// Amounts differing only beyond the hundredths place collide on purpose:
// bank exports carry two-decimal precision, and the rounding must stay
// stable so hashes match previously stored records.
func Fingerprint(accountID, postedAt string, amount decimal.Decimal, merchant, descriptionRaw string) string {
	key := strings.Join([]string{
		accountID,
		postedAt,
		amount.StringFixed(2),
		merchant,
		descriptionRaw,
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
