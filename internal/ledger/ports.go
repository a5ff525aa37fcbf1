// Package ledger turns a household-ledger export into raw transactions.
//
// The export is a table whose header row names the columns; the readers in
// the subpackages only differ in how they obtain that table.
package ledger

import (
	"context"

	"gagyebu/internal/core"
)

// DefaultSheetName is the sheet Bank Salad writes ledger entries to.
const DefaultSheetName = "가계부 내역"

// Column headers of the ledger sheet.
const (
	ColumnDate          = "날짜"
	ColumnDescription   = "내용"
	ColumnAmount        = "금액"
	ColumnPaymentMethod = "결제수단"
	ColumnCategory      = "대분류"
)

type (
	// Reader produces the rows of one ledger.
	Reader interface {
		Read(ctx context.Context) (Result, error)
	}

	// Result holds the rows that were read and those that were skipped
	// because their date or amount could not be interpreted.
	Result struct {
		Rows    []core.RawTransaction
		Skipped []*core.MalformedInputError
	}
)

// Empty reports whether nothing usable was read.
func (r Result) Empty() bool { return len(r.Rows) == 0 }
