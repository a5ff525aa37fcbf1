// Package source picks a ledger reader for an uploaded file.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gagyebu/internal/core"
	"gagyebu/internal/ledger"
	"gagyebu/internal/ledger/csvfile"
	"gagyebu/internal/ledger/xlsx"
)

// ErrUnsupportedFormat is wrapped by Detect for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Detect returns a reader for filename based on its extension. sheet applies
// to workbooks only.
func Detect(filename string, src io.Reader, sheet string) (ledger.Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return xlsx.New(src, filename, sheet), nil
	case ".csv":
		return csvfile.New(src, filename), nil
	default:
		return nil, &core.UnreadableSourceError{
			Source: filename,
			Err:    fmt.Errorf("%w %q (expected .xlsx or .csv)", ErrUnsupportedFormat, filepath.Ext(filename)),
		}
	}
}
