package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"gagyebu/internal/amqp"
	"gagyebu/internal/core"
	applog "gagyebu/internal/log"
	"gagyebu/internal/sheets"
	"gagyebu/internal/sheets/google"
)

// ErrEmptyReport is returned for messages that carry no groups.
var ErrEmptyReport = errors.New("report has no groups")

// ReportHeader is the column order of exported report rows.
var ReportHeader = []string{
	"exported_at", "report_id", "session_id", "filename",
	"range_start", "range_end", "group", "total", "credit_total", "debit_or_cash_total",
}

// Exporter appends published reports to a spreadsheet, one row per group.
// Rows go to a sheet named "<year> <base>" where year is taken from the start
// of the report range.
type Exporter struct {
	sheets     sheets.RowAppender
	baseSheet  string
	maxRetries uint64
	newBackOff func() backoff.BackOff
	logger     *applog.Logger
}

func NewExporter(appender sheets.RowAppender, baseSheet string, logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Exporter{
		sheets:     appender,
		baseSheet:  baseSheet,
		maxRetries: 3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleReport exports msg. Malformed messages fail immediately; spreadsheet
// errors are retried a few times before being returned so the message can be
// redelivered.
func (e *Exporter) HandleReport(ctx context.Context, msg *amqp.ReportMessage) error {
	e.logger.InfoContext(ctx, "Processing report message",
		"id", msg.ID,
		applog.FieldSessionID, msg.SessionID,
		applog.FieldGroups, len(msg.Groups))

	rows, sheet, err := e.rows(msg)
	if err != nil {
		e.logger.WarnContext(ctx, "Skipping malformed report message",
			"id", msg.ID,
			applog.FieldError, err)
		return nil
	}

	var ref string
	op := func() error {
		var err error
		ref, err = e.sheets.AppendRows(ctx, sheet, rows)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		e.logger.WarnContext(ctx, "Append to sheet failed, retrying",
			"id", msg.ID,
			"retry_in", wait,
			applog.FieldError, err)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(e.newBackOff(), e.maxRetries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return fmt.Errorf("append report %s to %s: %w", msg.ID, sheet, err)
	}

	e.logger.InfoContext(ctx, "Report exported",
		"id", msg.ID,
		applog.FieldSheetsRef, ref,
		applog.FieldOperation, applog.OpExport,
		applog.FieldRows, len(rows))
	return nil
}

func (e *Exporter) rows(msg *amqp.ReportMessage) ([][]any, string, error) {
	if len(msg.Groups) == 0 {
		return nil, "", ErrEmptyReport
	}
	if err := msg.Range.Validate(); err != nil {
		return nil, "", err
	}
	start, _ := time.Parse(core.DateLayout, msg.Range.Start)
	sheet := google.YearPrefixedName(e.baseSheet, start.Year())

	exportedAt := msg.Timestamp.UTC().Format(time.RFC3339)
	rows := make([][]any, 0, len(msg.Groups))
	for _, g := range msg.Groups {
		rows = append(rows, []any{
			exportedAt,
			msg.ID,
			msg.SessionID,
			msg.Filename,
			msg.Range.Start,
			msg.Range.End,
			g.Label,
			g.Total.String(),
			g.Credit.String(),
			g.DebitOrCash.String(),
		})
	}
	return rows, sheet, nil
}
