package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gagyebu/internal/core"
	applog "gagyebu/internal/log"
	"gagyebu/internal/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks templates and backing stores.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]string{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":         status,
		"timestamp":      s.now().Format(time.RFC3339),
		"checks":         checks,
		"active_clients": s.limiter.ActiveClients(),
		"requests_total": s.tracer.GetMetrics().TotalRequests,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.templates == nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	rng, _ := core.PresetRange(core.PresetMonth, s.now())
	merchantGroups, err := s.groups.Groups(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to load merchant groups", applog.FieldError, err)
	}

	data := struct {
		Range       core.DateRange
		Groups      []core.MerchantGroup
		MaxUploadMB int64
	}{
		Range:       rng,
		Groups:      merchantGroups,
		MaxUploadMB: s.maxUploadBytes >> 20,
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

type uploadResponse struct {
	ID          string                      `json:"id"`
	Filename    string                      `json:"filename"`
	Rows        int                         `json:"rows"`
	Skipped     int                         `json:"skipped"`
	SkippedRows []*core.MalformedInputError `json:"skippedRows,omitempty"`
	Message     string                      `json:"message,omitempty"`
}

// handleUpload ingests a multipart "file" field into a new session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, badRequest("invalid multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest("missing file field"))
		return
	}
	defer file.Close()

	sess, err := s.reports.Ingest(r.Context(), sanitizeFilename(header.Filename), file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:          sess.ID,
		Filename:    sess.Filename,
		Rows:        len(sess.Rows),
		Skipped:     len(sess.Skipped),
		SkippedRows: sess.Skipped,
		Message:     sess.Message,
	})
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := parseRange(q.Get("start"), q.Get("end"), q.Get("preset"), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	methods, err := s.reports.PaymentMethods(r.Context(), r.PathValue("id"), rng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"range":          rng,
		"paymentMethods": methods,
	})
}

type reportResponse struct {
	*services.Report
	Lines []string `json:"lines"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var body reportRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := body.toService(s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := s.reports.Build(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Report: rep, Lines: rep.Aggregate.Lines()})
}

// handleReportPartial renders the report table and summary lines as HTML.
func (s *Server) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	req, err := reportRequestFromQuery(r.URL.Query()).toService(s.now())
	if err != nil {
		s.writeErrorHTML(w, r, err)
		return
	}
	rep, err := s.reports.Build(r.Context(), req)
	if err != nil {
		s.writeErrorHTML(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "report.html", struct {
		Report *services.Report
		Lines  []string
	}{Report: rep, Lines: rep.Aggregate.Lines()})
}

func (s *Server) writeRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.ips.ClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, apiError{Error: "rate limit exceeded, please try again later"})
}
