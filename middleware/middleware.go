// Package middleware validates HTTP request bodies with goshape schemas.
package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	gojson "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/logging"
	"github.com/reoring/goshape/source"
)

type ctxKeyValue struct{}

// ContextWithValue attaches a validated body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the validated body stored by ValidateJSON.
func ValueFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValue{})
	return v, v != nil
}

// Option configures ValidateJSON.
type Option func(*config)

type config struct {
	opts     []goshape.Option
	maxBytes int64
	strict   bool
	metrics  *Metrics
	logger   *slog.Logger
}

// WithValidateOptions passes options to every Validate call.
func WithValidateOptions(opts ...goshape.Option) Option {
	return func(c *config) { c.opts = append(c.opts, opts...) }
}

// WithMaxBytes limits the request body size; the default is 1 MiB.
func WithMaxBytes(n int64) Option { return func(c *config) { c.maxBytes = n } }

// WithDuplicateKeys accepts bodies that repeat object keys. By default they
// are rejected.
func WithDuplicateKeys() Option { return func(c *config) { c.strict = false } }

// WithMetrics records outcomes in m.
func WithMetrics(m *Metrics) Option { return func(c *config) { c.metrics = m } }

// WithLogger logs rejected requests at debug level.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// ErrorItem is one entry of an error payload.
type ErrorItem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ErrorPayload shapes a validation error for JSON responses.
func ErrorPayload(ve *goshape.ValidationError) map[string]any {
	leaves := ve.Leaves()
	items := make([]ErrorItem, 0, len(leaves))
	for _, l := range leaves {
		items = append(items, ErrorItem{Path: l.Path, Message: l.Message, Type: l.Type})
	}
	return map[string]any{"errors": items}
}

// ValidateJSON decodes the request body as JSON, validates it against s and
// stores the cast value in the request context. Invalid bodies get a 400
// (or 422 for validation errors) with an error payload.
func ValidateJSON(s goshape.Schema, opts ...Option) func(http.Handler) http.Handler {
	cfg := config{maxBytes: 1 << 20, strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logging.OrNop(cfg.logger)
	vopts := append([]goshape.Option{goshape.WithLogger(logger)}, cfg.opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.maxBytes))
			if err != nil {
				cfg.metrics.observe(r, resultError, start)
				writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": err.Error()})
				return
			}
			src := goshape.JSONBytes(body)
			if cfg.strict {
				src = source.StrictJSON(body)
			}
			v, err := goshape.Parse(r.Context(), s, src, vopts...)
			if err != nil {
				if ve, ok := goshape.AsValidationError(err); ok {
					cfg.metrics.observe(r, resultInvalid, start)
					logger.Debug("request body rejected", "path", r.URL.Path, "errors", len(ve.Leaves()))
					writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(ve))
					return
				}
				cfg.metrics.observe(r, resultError, start)
				status := http.StatusBadRequest
				var cfgErr *goshape.ConfigError
				if errors.As(err, &cfgErr) {
					status = http.StatusInternalServerError
				}
				writeJSON(w, status, map[string]any{"error": err.Error()})
				return
			}
			cfg.metrics.observe(r, resultValid, start)
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = gojson.NewEncoder(w).Encode(v)
}

// routeLabel prefers the chi route pattern so metrics do not explode on path
// parameters.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
