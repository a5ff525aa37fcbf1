package sheets

import "context"

// Ports for the spreadsheet adapters.
type (
	// ValueReader returns every non-empty row of a sheet as trimmed strings.
	ValueReader interface {
		ReadValues(ctx context.Context, sheet string) ([][]string, error)
	}

	// RowAppender appends rows after the last filled row of a sheet.
	RowAppender interface {
		AppendRows(ctx context.Context, sheet string, rows [][]any) (rowRef string, err error)
	}
)
