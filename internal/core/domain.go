package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical ledger date format. Values in this layout
// compare correctly as plain strings.
const DateLayout = "2006-01-02"

type (
	// RawTransaction is one ledger row as read from the source spreadsheet.
	RawTransaction struct {
		Date          string          `json:"date"`
		Description   string          `json:"description"`
		Amount        decimal.Decimal `json:"amount"`
		PaymentMethod string          `json:"paymentMethod"`
		Category      string          `json:"category"`
	}

	// NormalizedTransaction is a RawTransaction selected for a date range,
	// with the sign of the amount discarded.
	NormalizedTransaction struct {
		Date          string          `json:"date"`
		Merchant      string          `json:"merchant"`
		Amount        decimal.Decimal `json:"amount"`
		Category      string          `json:"category"`
		PaymentMethod string          `json:"paymentMethod"`
		// UsabilityFlag is a user annotation; it is never computed.
		UsabilityFlag string `json:"usabilityFlag"`
	}

	// DateRange is an inclusive pair of YYYY-MM-DD dates.
	DateRange struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}

	// PaymentMethodPartition splits payment-method labels into credit and
	// debit/cash. The two sets are expected to be disjoint; labels in neither
	// set are attributed to neither.
	PaymentMethodPartition struct {
		Credit      []string `json:"credit"`
		DebitOrCash []string `json:"debitOrCash"`
	}

	// MerchantGroup is a named, fixed set of exact merchant names.
	MerchantGroup struct {
		Name      string   `json:"name" yaml:"name"`
		Label     string   `json:"label" yaml:"label"`
		Merchants []string `json:"merchants" yaml:"merchants"`
	}
)

// NewDateRange builds a range from two points in time using DateLayout.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: start.Format(DateLayout), End: end.Format(DateLayout)}
}

// Validate checks that both bounds are well formed and ordered.
func (r DateRange) Validate() error {
	if !ValidDate(r.Start) {
		return &MalformedInputError{Field: FieldRangeStart, Value: r.Start}
	}
	if !ValidDate(r.End) {
		return &MalformedInputError{Field: FieldRangeEnd, Value: r.End}
	}
	if r.Start > r.End {
		return &InvalidRangeError{Start: r.Start, End: r.End}
	}
	return nil
}

// Contains reports whether date falls inside the inclusive range.
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

func (r DateRange) String() string {
	return r.Start + " ~ " + r.End
}

// DisplayLabel returns the label shown to users, falling back to the name.
func (g MerchantGroup) DisplayLabel() string {
	if g.Label != "" {
		return g.Label
	}
	return g.Name
}

// Has reports whether merchant is an exact member of the group.
func (g MerchantGroup) Has(merchant string) bool {
	for _, m := range g.Merchants {
		if m == merchant {
			return true
		}
	}
	return false
}

// ValidDate reports whether s is a real calendar date in DateLayout.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
