package core

import "fmt"

// NormalizeResult holds the rows selected by Normalize and the rows it had to
// skip because their date could not be compared.
type NormalizeResult struct {
	Transactions []NormalizedTransaction `json:"transactions"`
	Skipped      []*MalformedInputError  `json:"skipped,omitempty"`
}

// Normalize selects the rows whose date lies within rng and converts them to
// NormalizedTransaction values, keeping input order.
//
// Dates are compared as strings, which is sound because DateLayout is zero
// padded. A row with a malformed date is skipped and reported in Skipped with
// its 1-based position in rows. An invalid range is rejected before any row is
// looked at.
func Normalize(rows []RawTransaction, rng DateRange) (NormalizeResult, error) {
	if err := rng.Validate(); err != nil {
		return NormalizeResult{}, fmt.Errorf("normalize: %w", err)
	}

	res := NormalizeResult{Transactions: make([]NormalizedTransaction, 0, len(rows))}
	for i, row := range rows {
		if !ValidDate(row.Date) {
			res.Skipped = append(res.Skipped, &MalformedInputError{Row: i + 1, Field: FieldDate, Value: row.Date})
			continue
		}
		if !rng.Contains(row.Date) {
			continue
		}
		res.Transactions = append(res.Transactions, NormalizedTransaction{
			Date:          row.Date,
			Merchant:      row.Description,
			Amount:        row.Amount.Abs(),
			Category:      row.Category,
			PaymentMethod: row.PaymentMethod,
		})
	}
	return res, nil
}
