package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"gagyebu/internal/core"
)

func TestParseRange(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		name       string
		start, end string
		preset     string
		want       core.DateRange
		wantErr    bool
	}{
		{"default preset is one month", "", "", "", core.DateRange{Start: "2023-12-31", End: "2024-01-31"}, false},
		{"week preset", "", "", "week", core.DateRange{Start: "2024-01-24", End: "2024-01-31"}, false},
		{"korean preset label", "", "", "일주일 전", core.DateRange{Start: "2024-01-24", End: "2024-01-31"}, false},
		{"explicit range wins over preset", "2024-01-01", "2024-01-10", "week", core.DateRange{Start: "2024-01-01", End: "2024-01-10"}, false},
		{"single day", "2024-01-05", "2024-01-05", "", core.DateRange{Start: "2024-01-05", End: "2024-01-05"}, false},
		{"only start", "2024-01-01", "", "", core.DateRange{}, true},
		{"reversed", "2024-01-10", "2024-01-01", "", core.DateRange{}, true},
		{"not a date", "2024-13-01", "2024-12-01", "", core.DateRange{}, true},
		{"unknown preset", "", "", "year", core.DateRange{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRange(tt.start, tt.end, tt.preset, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRange_ReversedIsInvalidRange(t *testing.T) {
	_, err := parseRange("2024-01-10", "2024-01-01", "", fixedNow())
	if !errors.Is(err, core.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestParseList(t *testing.T) {
	q := url.Values{"credit": {"신한카드", " 현대카드 ", "", "신한카드", "A, B"}}
	got := parseList(q, "credit")
	want := []string{"신한카드", "현대카드", "A, B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseList() = %v, want %v", got, want)
	}
	if got := parseList(q, "missing"); len(got) != 0 {
		t.Errorf("parseList(missing) = %v", got)
	}
}

func TestReportRequestFromQuery(t *testing.T) {
	q := url.Values{
		"id":      {"abc"},
		"preset":  {"week"},
		"credit":  {"신한카드"},
		"debit":   {"우리체크", "토스뱅크"},
		"include": {"현금"},
	}
	req, err := reportRequestFromQuery(q).toService(fixedNow())
	if err != nil {
		t.Fatal(err)
	}
	if req.SessionID != "abc" {
		t.Errorf("SessionID = %q", req.SessionID)
	}
	if req.Range.Start != "2024-01-24" {
		t.Errorf("Range = %v", req.Range)
	}
	if !reflect.DeepEqual(req.Partition.DebitOrCash, []string{"우리체크", "토스뱅크"}) {
		t.Errorf("DebitOrCash = %v", req.Partition.DebitOrCash)
	}
	if !reflect.DeepEqual(req.Include, []string{"현금"}) {
		t.Errorf("Include = %v", req.Include)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     bool
	}{
		{"valid", "application/json", `{"uploadId":"a"}`, false},
		{"charset suffix", "application/json; charset=utf-8", `{"uploadId":"a"}`, false},
		{"no content type", "", `{"uploadId":"a"}`, false},
		{"form content type", "application/x-www-form-urlencoded", `{"uploadId":"a"}`, true},
		{"unknown field", "application/json", `{"uploadId":"a","x":1}`, true},
		{"trailing data", "application/json", `{"uploadId":"a"}{}`, true},
		{"empty body", "application/json", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			var body reportRequest
			err := decodeJSON(httptest.NewRecorder(), r, &body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && body.UploadID != "a" {
				t.Errorf("UploadID = %q", body.UploadID)
			}
		})
	}
}
