// Package gsheet reads a ledger kept in a Google spreadsheet.
package gsheet

import (
	"context"
	"fmt"
	"strings"

	"gagyebu/internal/core"
	"gagyebu/internal/ledger"
	"gagyebu/internal/sheets"
)

type Reader struct {
	values sheets.ValueReader
	sheet  string
}

var _ ledger.Reader = (*Reader)(nil)

// New returns a reader over sheet, defaulting to ledger.DefaultSheetName.
func New(values sheets.ValueReader, sheet string) *Reader {
	if strings.TrimSpace(sheet) == "" {
		sheet = ledger.DefaultSheetName
	}
	return &Reader{values: values, sheet: sheet}
}

func (r *Reader) Read(ctx context.Context) (ledger.Result, error) {
	table, err := r.values.ReadValues(ctx, r.sheet)
	if err != nil {
		return ledger.Result{}, &core.UnreadableSourceError{Source: r.sheet, Err: fmt.Errorf("read values: %w", err)}
	}
	return ledger.ParseTable(r.sheet, table)
}
