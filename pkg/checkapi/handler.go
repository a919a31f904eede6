package checkapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/rulekit/pkg/checker"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/logger"
)

const defaultMaxBodySize = 1 << 20

// Checker is the part of checker.Engine the handlers use.
type Checker interface {
	Validate(ctx context.Context, entity string, target any) (constraint.ValidationErrors, error)
	Ruleset() *checker.Ruleset
}

// RequestID is a logger.ContextExtractor that adds the chi request id to log records.
func RequestID(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

type Option func(*options)

type options struct {
	log         *slog.Logger
	healthcheck func(context.Context) error
	gatherer    prometheus.Gatherer
	maxBodySize int64
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithHealthcheck sets the readiness probe behind /healthz.
func WithHealthcheck(fn func(context.Context) error) Option {
	return func(o *options) { o.healthcheck = fn }
}

// WithMetrics mounts /metrics for g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *options) { o.gatherer = g }
}

// WithMaxBodySize limits request bodies, 1 MiB by default.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// NewRouter builds the HTTP routes around c.
func NewRouter(c Checker, opts ...Option) http.Handler {
	o := options{log: logger.Discard(), maxBodySize: defaultMaxBodySize}
	for _, opt := range opts {
		opt(&o)
	}
	h := &handlers{checker: c, opts: o, log: o.log.With(logger.Component("checkapi"))}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Post("/validate/{entity}", h.validate)
	r.Get("/entities", h.entities)
	r.Get("/healthz", h.health)
	if o.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type handlers struct {
	checker Checker
	opts    options
	log     *slog.Logger
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	var target map[string]any
	body := http.MaxBytesReader(w, r.Body, h.opts.maxBodySize)
	if err := json.NewDecoder(body).Decode(&target); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body is too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "invalid_json", "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object")
		}
		return
	}
	if target == nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object")
		return
	}

	errs, err := h.checker.Validate(r.Context(), entity, target)
	switch {
	case errors.Is(err, checker.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, "unknown_entity", err.Error())
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "validation aborted",
			slog.String("entity", entity),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "validation could not be completed")
		return
	}

	if len(errs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	details := make(map[string][]string, len(errs))
	for _, field := range errs.Fields() {
		details[field] = errs.Get(field)
	}
	writeJSON(w, http.StatusUnprocessableEntity, Response{
		Data:  errs,
		Error: &ErrorDetail{Code: "validation_error", Message: errs.Error(), Details: details},
	})
}

func (h *handlers) entities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Data: h.checker.Ruleset().Names()})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.healthcheck != nil {
		if err := h.opts.healthcheck(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "not_ready", "session factory is unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, Response{Data: map[string]string{"status": "ok"}})
}
