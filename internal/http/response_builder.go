package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"gagyebu/internal/core"
	"gagyebu/internal/groups"
	applog "gagyebu/internal/log"
	"gagyebu/internal/services"
)

type apiError struct {
	Error string `json:"error"`
}

// errorStatus maps an error to a status code and a client-facing message.
// Unexpected errors get a generic message.
func errorStatus(err error) (int, string) {
	var (
		bad       *badRequestError
		malformed *core.MalformedInputError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, bad.msg
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound, "upload not found or expired"
	case errors.Is(err, groups.ErrGroupNotFound):
		return http.StatusNotFound, "merchant group not found"
	case errors.Is(err, groups.ErrInvalidGroup):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrInvalidRange):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &malformed):
		return http.StatusBadRequest, malformed.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	s.logError(r, status, err)
	writeJSON(w, status, apiError{Error: msg})
}

func (s *Server) writeErrorHTML(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	s.logError(r, status, err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func (s *Server) logError(r *http.Request, status int, err error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "Request failed", applog.FieldPath, r.URL.Path, applog.FieldError, err)
		return
	}
	logger.DebugContext(ctx, "Request rejected", applog.FieldPath, r.URL.Path, applog.FieldError, err)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	ctx := r.Context()
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"template", name)
	}
}
