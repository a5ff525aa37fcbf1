package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gagyebu/internal/amqp"
	"gagyebu/internal/cache"
	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	"gagyebu/internal/ledger"
	"gagyebu/internal/ledger/source"
	applog "gagyebu/internal/log"
)

// ErrSessionNotFound is returned for unknown or expired upload ids.
var ErrSessionNotFound = errors.New("session not found")

// ReportPublisher announces built reports.
type ReportPublisher interface {
	PublishReport(ctx context.Context, msg *amqp.ReportMessage) error
}

// Session is one uploaded ledger kept in memory.
type Session struct {
	ID         string                      `json:"id"`
	Filename   string                      `json:"filename"`
	Rows       []core.RawTransaction       `json:"-"`
	Skipped    []*core.MalformedInputError `json:"skippedRows,omitempty"`
	Message    string                      `json:"message,omitempty"`
	UploadedAt time.Time                   `json:"uploadedAt"`
}

// ReportRequest selects the rows and the breakdown of a report. When the
// partition is empty, Include restricts the payment methods instead.
type ReportRequest struct {
	SessionID string
	Range     core.DateRange
	Partition core.PaymentMethodPartition
	Include   []string
}

// Report is the result of Build.
type Report struct {
	SessionID      string                       `json:"sessionId"`
	Filename       string                       `json:"filename"`
	Range          core.DateRange               `json:"range"`
	Transactions   []core.NormalizedTransaction `json:"transactions"`
	Skipped        []*core.MalformedInputError  `json:"skipped,omitempty"`
	PaymentMethods []string                     `json:"paymentMethods"`
	Aggregate      core.AggregateReport         `json:"aggregate"`
}

// DetectFunc picks a ledger reader for an uploaded file.
type DetectFunc func(filename string, src io.Reader) (ledger.Reader, error)

// ReportService ingests ledgers into sessions and builds reports from them.
type ReportService struct {
	sessions  cache.Cache[*Session]
	groups    groups.Reader
	publisher ReportPublisher
	detect    DetectFunc
	now       func() time.Time
	logger    *applog.Logger
}

type Option func(*ReportService)

// WithPublisher announces every built report through p.
func WithPublisher(p ReportPublisher) Option {
	return func(s *ReportService) { s.publisher = p }
}

// WithSheetName sets the workbook sheet holding the ledger.
func WithSheetName(sheet string) Option {
	return func(s *ReportService) {
		s.detect = func(filename string, src io.Reader) (ledger.Reader, error) {
			return source.Detect(filename, src, sheet)
		}
	}
}

// WithDetector replaces extension-based reader selection, for example to
// read every upload as CSV.
func WithDetector(d DetectFunc) Option {
	return func(s *ReportService) { s.detect = d }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ReportService) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *ReportService) { s.now = now }
}

func NewReportService(sessions cache.Cache[*Session], groupsReader groups.Reader, opts ...Option) *ReportService {
	s := &ReportService{
		sessions: sessions,
		groups:   groupsReader,
		now:      time.Now,
	}
	WithSheetName(ledger.DefaultSheetName)(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(applog.ComponentReport)
	return s
}

// Ingest reads an uploaded file into a new session. An unreadable file still
// yields a session, with no rows and a message for the user.
func (s *ReportService) Ingest(ctx context.Context, filename string, src io.Reader) (*Session, error) {
	reader, err := s.detect(filename, src)
	if err != nil {
		return s.ingestFailed(ctx, filename, err)
	}
	return s.IngestReader(ctx, filename, reader)
}

// IngestReader reads a ledger from reader into a new session.
func (s *ReportService) IngestReader(ctx context.Context, name string, reader ledger.Reader) (*Session, error) {
	res, err := reader.Read(ctx)
	if err != nil {
		return s.ingestFailed(ctx, name, err)
	}

	sess := s.newSession(name)
	sess.Rows = res.Rows
	sess.Skipped = res.Skipped
	switch {
	case len(res.Skipped) > 0:
		sess.Message = fmt.Sprintf("%d개 행을 읽지 못해 건너뛰었습니다.", len(res.Skipped))
	case res.Empty():
		sess.Message = "거래 내역이 없습니다."
	}
	s.sessions.Set(sess.ID, sess)

	s.logger.InfoContext(ctx, "Ledger ingested",
		applog.NewFields().
			WithUpload(sess.ID, name, len(sess.Rows), len(sess.Skipped)).
			WithOperation(applog.OpIngest).
			ToSlice()...)
	return sess, nil
}

func (s *ReportService) ingestFailed(ctx context.Context, name string, err error) (*Session, error) {
	var unreadable *core.UnreadableSourceError
	if !errors.As(err, &unreadable) {
		return nil, fmt.Errorf("read ledger %s: %w", name, err)
	}
	sess := s.newSession(name)
	sess.Message = fmt.Sprintf("파일을 읽을 수 없습니다. : %v", unreadable.Err)
	s.sessions.Set(sess.ID, sess)

	s.logger.WarnContext(ctx, "Ledger unreadable, continuing with empty data",
		applog.NewFields().
			WithUpload(sess.ID, name, 0, 0).
			WithOperation(applog.OpIngest).
			WithError(err).
			ToSlice()...)
	return sess, nil
}

func (s *ReportService) newSession(name string) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Filename:   name,
		UploadedAt: s.now(),
	}
}

// Session returns a live session.
func (s *ReportService) Session(_ context.Context, id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// PaymentMethods lists the selectable payment methods of the rows in rng.
func (s *ReportService) PaymentMethods(ctx context.Context, sessionID string, rng core.DateRange) ([]string, error) {
	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	res, err := core.Normalize(sess.Rows, rng)
	if err != nil {
		return nil, err
	}
	excluded, err := s.groups.ExcludedPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load excluded payment methods: %w", err)
	}
	return core.PaymentMethods(res.Transactions, excluded), nil
}

// Build normalizes the session rows for the requested range and aggregates
// them over the configured merchant groups.
func (s *ReportService) Build(ctx context.Context, req ReportRequest) (*Report, error) {
	sess, err := s.Session(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}

	var (
		merchantGroups []core.MerchantGroup
		excluded       []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		merchantGroups, err = s.groups.Groups(gctx)
		if err != nil {
			return fmt.Errorf("load merchant groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		excluded, err = s.groups.ExcludedPaymentMethods(gctx)
		if err != nil {
			return fmt.Errorf("load excluded payment methods: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := core.Normalize(sess.Rows, req.Range)
	if err != nil {
		return nil, err
	}
	methods := core.PaymentMethods(res.Transactions, excluded)
	txs := res.Transactions
	if !req.Partition.IsPartitioned() {
		txs = core.FilterPaymentMethods(txs, req.Include)
	}

	report := &Report{
		SessionID:      sess.ID,
		Filename:       sess.Filename,
		Range:          req.Range,
		Transactions:   txs,
		Skipped:        res.Skipped,
		PaymentMethods: methods,
		Aggregate:      core.Aggregate(txs, req.Partition, merchantGroups),
	}

	s.logger.InfoContext(ctx, "Report built",
		applog.NewFields().
			WithRange(req.Range.Start, req.Range.End).
			WithOperation(applog.OpBuild).
			ToSlice()...,
	)
	s.publish(ctx, report)
	return report, nil
}

func (s *ReportService) publish(ctx context.Context, r *Report) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewReportMessage(r.SessionID, r.Filename, r.Range, len(r.Transactions), r.Aggregate)
	if err := s.publisher.PublishReport(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish report message",
			applog.FieldSessionID, r.SessionID,
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
	}
}
