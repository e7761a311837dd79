// Package normalize holds the locale-tolerant value normalizers shared by both
// document modalities. Every function here is total: bad input maps to a default.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var reNonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// Decimal strips everything except digits, '.' and '-' and parses the rest.
// Empty or unparsable input yields zero.
func Decimal(s string) decimal.Decimal {
	cleaned := reNonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var reNumericToken = regexp.MustCompile(`^-?[0-9][0-9,]*(\.[0-9]+)?%?$|^-?\.[0-9]+$`)

// IsNumeric reports whether tok looks like a single number ("1,250.00", "12", "18%").
func IsNumeric(tok string) bool {
	tok = strings.TrimSpace(tok)
	tok = strings.TrimPrefix(tok, "₹")
	return reNumericToken.MatchString(tok)
}
