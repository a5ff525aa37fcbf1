// Package xlsx reads a ledger from an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"gagyebu/internal/core"
	"gagyebu/internal/ledger"
)

type Reader struct {
	src    io.Reader
	source string
	sheet  string
}

var _ ledger.Reader = (*Reader)(nil)

// New returns a reader over the workbook in src. source names the workbook in
// errors; an empty sheet selects ledger.DefaultSheetName.
func New(src io.Reader, source, sheet string) *Reader {
	if strings.TrimSpace(sheet) == "" {
		sheet = ledger.DefaultSheetName
	}
	return &Reader{src: src, source: source, sheet: sheet}
}

// Read opens the workbook and parses the ledger sheet. Cells are read raw so
// date cells keep their serial value instead of the workbook's display format.
func (r *Reader) Read(ctx context.Context) (ledger.Result, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Result{}, err
	}
	f, err := excelize.OpenReader(r.src)
	if err != nil {
		return ledger.Result{}, &core.UnreadableSourceError{Source: r.source, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil || idx < 0 {
		return ledger.Result{}, &core.UnreadableSourceError{
			Source: r.source,
			Err:    fmt.Errorf("sheet %q not found (have %s)", r.sheet, strings.Join(f.GetSheetList(), ", ")),
		}
	}
	rows, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ledger.Result{}, &core.UnreadableSourceError{Source: r.source, Err: fmt.Errorf("read sheet %q: %w", r.sheet, err)}
	}
	return ledger.ParseTable(r.source, rows)
}
