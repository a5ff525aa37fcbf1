package ledger

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gagyebu/internal/core"
)

// ErrInvalidDate is returned when a date cell matches no known layout.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	core.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006.01.02",
	"2006.01.02 15:04:05",
	"2006-1-2",
	"2006.1.2",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006/1/2",
}

// Excel serial day numbers are only accepted between 1900 and 9999.
const maxExcelSerial = 2958465

// ParseDate converts a ledger date cell to core.DateLayout. Text dates in the
// common export layouts are accepted, as are Excel serial day numbers.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(core.DateLayout), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(core.DateLayout), nil
		}
	}
	return "", ErrInvalidDate
}
