package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gagyebu/internal/core"
	"gagyebu/internal/services"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad request", badRequest("missing file field"), http.StatusBadRequest, "missing file field"},
		{"session not found", fmt.Errorf("%w: abc", services.ErrSessionNotFound), http.StatusNotFound, "upload not found or expired"},
		{"invalid range", fmt.Errorf("normalize: %w", &core.InvalidRangeError{Start: "2024-02-01", End: "2024-01-01"}),
			http.StatusBadRequest, "normalize: invalid date range: start 2024-02-01 is after end 2024-01-01"},
		{"malformed input", &core.MalformedInputError{Field: core.FieldRangeEnd, Value: "x"}, http.StatusBadRequest, `malformed range.end "x"`},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "request body too large"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := errorStatus(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
