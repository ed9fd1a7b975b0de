package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerchant(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "starbucks", "STARBUCKS"},
		{"strips punctuation", "STARBUCKS #123", "STARBUCKS 123"},
		{"collapses whitespace", "TRADER   JOE'S\t#42", "TRADER JOES 42"},
		{"trims", "  NETFLIX.COM  ", "NETFLIXCOM"},
		{"only punctuation", "***", ""},
		{"non-ascii dropped", "CAFÉ MÜNCHEN", "CAF MNCHEN"},
		{"mixed case", "Uber *Eats", "UBER EATS"},
		{"newlines collapse", "WHOLE\nFOODS", "WHOLE FOODS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merchant(tt.in))
		})
	}
}

func TestMerchant_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"STARBUCKS #123",
		"  Trader   Joe's  ",
		"a1 b2 c3!",
		"***",
	}
	for _, in := range inputs {
		once := Merchant(in)
		assert.Equal(t, once, Merchant(once), "input %q", in)
	}
}
