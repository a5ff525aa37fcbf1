// Package core holds the ledger transform pipeline: row normalization,
// payment-method selection and merchant-group aggregation.
//
// This file contains amount parsing and formatting helpers. Amounts are kept
// as decimal values end to end so sums match the precision of the ledger.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are encoded as JSON numbers in every API and message.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrInvalidAmount is returned when an amount cell cannot be interpreted.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a ledger amount cell to a decimal.
//
// Thousands separators and a trailing currency suffix are accepted, as are
// signed values; the ledger encodes refunds and charges with opposite signs.
//
// Examples:
//
//	ParseAmount("-12,000")  -> -12000, nil
//	ParseAmount("1234.5")   -> 1234.5, nil
//	ParseAmount("3,500원")  -> 3500, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "+" || s == "-" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with thousands separators, keeping any
// fractional digits the value carries.
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
