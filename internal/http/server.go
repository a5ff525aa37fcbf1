package http

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	applog "gagyebu/internal/log"
	"gagyebu/internal/middleware/ratelimit"
	"gagyebu/internal/middleware/security"
	"gagyebu/internal/middleware/trace"
	"gagyebu/internal/services"
	appweb "gagyebu/web"
)

// ReportAPI is the part of the report service used by the handlers.
type ReportAPI interface {
	Ingest(ctx context.Context, filename string, src io.Reader) (*services.Session, error)
	PaymentMethods(ctx context.Context, sessionID string, rng core.DateRange) ([]string, error)
	Build(ctx context.Context, req services.ReportRequest) (*services.Report, error)
}

var _ ReportAPI = (*services.ReportService)(nil)

// Options tunes a Server. Zero values select defaults.
type Options struct {
	MaxUploadBytes     int64
	RateLimitPerMinute int
	Logger             *applog.Logger
	// Ready reports whether backing stores are usable; nil means always ready.
	Ready func(ctx context.Context) error
	Now   func() time.Time
}

type Server struct {
	http.Server
	reports   ReportAPI
	groups    groups.Store
	templates *template.Template
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	ips       *security.ClientIPResolver
	logger    *applog.Logger

	maxUploadBytes int64
	ready          func(ctx context.Context) error
	now            func() time.Time
	started        time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, reports ReportAPI, groupStore groups.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	ips := security.NewClientIPResolver()

	s := &Server{
		reports: reports,
		groups:  groupStore,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		tracer:         trace.NewMiddleware(opts.Logger, ips.ClientIP),
		ips:            ips,
		logger:         logger,
		maxUploadBytes: opts.MaxUploadBytes,
		ready:          opts.Ready,
		now:            opts.Now,
		started:        time.Now(),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	limited := s.limiter.Middleware(ips.ClientIP, s.writeRateLimited)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /groups", s.handleGroups)
	mux.HandleFunc("GET /groups/export", s.handleExportGroups)
	mux.Handle("PUT /groups/{name}", limited(http.HandlerFunc(s.handleSaveGroup)))
	mux.Handle("DELETE /groups/{name}", limited(http.HandlerFunc(s.handleDeleteGroup)))
	mux.Handle("PUT /excluded-payment-methods", limited(http.HandlerFunc(s.handleSetExcluded)))
	mux.Handle("POST /uploads", limited(http.HandlerFunc(s.handleUpload)))
	mux.HandleFunc("GET /uploads/{id}/payment-methods", s.handlePaymentMethods)
	mux.Handle("POST /reports", limited(http.HandlerFunc(s.handleReport)))
	mux.HandleFunc("GET /ui/report", s.handleReportPartial)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers.Middleware(mux))
	s.Addr = addr
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

var templateFuncs = template.FuncMap{
	"amount": core.FormatAmount,
}
