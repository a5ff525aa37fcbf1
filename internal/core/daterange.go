package core

import (
	"fmt"
	"strings"
	"time"
)

// Preset is a named date-range shortcut ending today.
type Preset string

const (
	PresetMonth Preset = "month"
	PresetWeek  Preset = "week"
)

// ParsePreset accepts the English preset names and their Korean menu labels.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "한달 전":
		return PresetMonth, nil
	case "week", "일주일 전":
		return PresetWeek, nil
	default:
		return "", fmt.Errorf("unknown date preset %q", s)
	}
}

// PresetRange returns the inclusive range covered by preset, ending at now.
//
// PresetMonth steps back one calendar month, clamping the day to the length of
// the target month, so March 31 yields February 28 (or 29).
func PresetRange(preset Preset, now time.Time) (DateRange, error) {
	switch preset {
	case PresetMonth:
		return NewDateRange(monthsBefore(now, 1), now), nil
	case PresetWeek:
		return NewDateRange(now.AddDate(0, 0, -7), now), nil
	default:
		return DateRange{}, fmt.Errorf("unknown date preset %q", preset)
	}
}

func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
