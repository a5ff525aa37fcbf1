package ledger

import (
	"errors"
	"fmt"
	"strings"

	"gagyebu/internal/core"
)

// ErrNoHeader is returned for a table without any non-blank row.
var ErrNoHeader = errors.New("header row not found")

var requiredColumns = []string{
	ColumnDate,
	ColumnDescription,
	ColumnAmount,
	ColumnPaymentMethod,
	ColumnCategory,
}

type columns struct {
	date, description, amount, paymentMethod, category int
}

func mapColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return columns{
		date:          idx[ColumnDate],
		description:   idx[ColumnDescription],
		amount:        idx[ColumnAmount],
		paymentMethod: idx[ColumnPaymentMethod],
		category:      idx[ColumnCategory],
	}, nil
}

// ParseTable interprets a table whose first non-blank row is the header.
// Columns are located by name, so their order does not matter. Blank rows are
// ignored; rows with an unreadable date or amount are skipped and reported
// with their 1-based row number in the table.
//
// A table without a header or without one of the required columns yields an
// UnreadableSourceError naming source.
func ParseTable(source string, table [][]string) (Result, error) {
	headerAt := -1
	for i, row := range table {
		if !blank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return Result{}, &core.UnreadableSourceError{Source: source, Err: ErrNoHeader}
	}
	cols, err := mapColumns(table[headerAt])
	if err != nil {
		return Result{}, &core.UnreadableSourceError{Source: source, Err: err}
	}

	var res Result
	for i := headerAt + 1; i < len(table); i++ {
		row := table[i]
		if blank(row) {
			continue
		}
		rowNum := i + 1

		rawDate := cell(row, cols.date)
		date, err := ParseDate(rawDate)
		if err != nil {
			res.Skipped = append(res.Skipped, &core.MalformedInputError{Row: rowNum, Field: core.FieldDate, Value: rawDate, Err: err})
			continue
		}
		rawAmount := cell(row, cols.amount)
		amount, err := core.ParseAmount(rawAmount)
		if err != nil {
			res.Skipped = append(res.Skipped, &core.MalformedInputError{Row: rowNum, Field: core.FieldAmount, Value: rawAmount, Err: err})
			continue
		}

		res.Rows = append(res.Rows, core.RawTransaction{
			Date:          date,
			Description:   cell(row, cols.description),
			Amount:        amount,
			PaymentMethod: cell(row, cols.paymentMethod),
			Category:      cell(row, cols.category),
		})
	}
	return res, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
