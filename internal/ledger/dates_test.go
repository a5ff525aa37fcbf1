package ledger

import (
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-10", "2024-01-10", true},
		{" 2024-01-10 ", "2024-01-10", true},
		{"2024-01-10 13:45:00", "2024-01-10", true},
		{"2024-01-10 13:45", "2024-01-10", true},
		{"2024-01-10T13:45:00", "2024-01-10", true},
		{"2024.01.10", "2024-01-10", true},
		{"2024.1.5", "2024-01-05", true},
		{"2024-1-5", "2024-01-05", true},
		{"2024/01/10", "2024-01-10", true},
		{"45301", "2024-01-10", true},
		{"45301.5", "2024-01-10", true},
		{"", "", false},
		{"yesterday", "", false},
		{"2024-13-01", "", false},
		{"-3", "", false},
		{"20240110", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseDate(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		} else if err == nil {
			t.Errorf("ParseDate(%q) = %q; want error", tc.in, got)
		}
	}
}
