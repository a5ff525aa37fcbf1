package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	"gagyebu/internal/services"
)

const maxJSONBodyBytes = 1 << 20

// badRequestError carries a message safe to show to the client.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// parseRange resolves the requested date range. Explicit start and end win
// over preset and must be given together; without them the preset applies,
// defaulting to one month back from now.
func parseRange(start, end, preset string, now time.Time) (core.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start != "" || end != "" {
		if start == "" || end == "" {
			return core.DateRange{}, badRequest("both start and end are required")
		}
		rng := core.DateRange{Start: start, End: end}
		if err := rng.Validate(); err != nil {
			return core.DateRange{}, err
		}
		return rng, nil
	}

	if strings.TrimSpace(preset) == "" {
		preset = string(core.PresetMonth)
	}
	p, err := core.ParsePreset(preset)
	if err != nil {
		return core.DateRange{}, badRequest("%v", err)
	}
	return core.PresetRange(p, now)
}

// parseList collects the repeated parameter key. Labels may contain commas,
// so values are never split.
func parseList(values url.Values, key string) []string {
	return groups.Dedupe(values[key])
}

// reportRequest is the body of POST /reports and the query of /ui/report.
type reportRequest struct {
	UploadID    string   `json:"uploadId"`
	Preset      string   `json:"preset"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Credit      []string `json:"credit"`
	DebitOrCash []string `json:"debitOrCash"`
	Include     []string `json:"include"`
}

func reportRequestFromQuery(q url.Values) reportRequest {
	id := q.Get("uploadId")
	if id == "" {
		id = q.Get("id")
	}
	return reportRequest{
		UploadID:    id,
		Preset:      q.Get("preset"),
		Start:       q.Get("start"),
		End:         q.Get("end"),
		Credit:      parseList(q, "credit"),
		DebitOrCash: parseList(q, "debit"),
		Include:     parseList(q, "include"),
	}
}

func (rr reportRequest) toService(now time.Time) (services.ReportRequest, error) {
	id := strings.TrimSpace(rr.UploadID)
	if id == "" {
		return services.ReportRequest{}, badRequest("uploadId is required")
	}
	rng, err := parseRange(rr.Start, rr.End, rr.Preset, now)
	if err != nil {
		return services.ReportRequest{}, err
	}
	return services.ReportRequest{
		SessionID: id,
		Range:     rng,
		Partition: core.PaymentMethodPartition{
			Credit:      groups.Dedupe(rr.Credit),
			DebitOrCash: groups.Dedupe(rr.DebitOrCash),
		},
		Include: groups.Dedupe(rr.Include),
	}, nil
}

// decodeJSON reads a single JSON object from the request body into v,
// rejecting unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return badRequest("content type must be application/json")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON body: trailing data")
	}
	return nil
}
