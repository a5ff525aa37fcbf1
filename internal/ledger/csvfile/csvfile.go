// Package csvfile reads a ledger exported as CSV.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"gagyebu/internal/core"
	"gagyebu/internal/ledger"
)

type Reader struct {
	src    io.Reader
	source string
}

var _ ledger.Reader = (*Reader)(nil)

func New(src io.Reader, source string) *Reader {
	return &Reader{src: src, source: source}
}

// Read parses the whole CSV. The first non-blank record must be the header;
// records may have differing field counts.
func (r *Reader) Read(ctx context.Context) (ledger.Result, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Result{}, err
	}
	cr := csv.NewReader(r.src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return ledger.Result{}, &core.UnreadableSourceError{Source: r.source, Err: fmt.Errorf("parse csv: %w", err)}
	}
	return ledger.ParseTable(r.source, records)
}
