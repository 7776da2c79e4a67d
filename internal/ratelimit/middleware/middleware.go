// Package middleware throttles expensive endpoints per installation, falling
// back to the client IP for callers that do not identify themselves.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"companion/internal/ratelimit/models"
	"companion/pkg/platform/httputil"
	"companion/pkg/requestcontext"
)

type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

type Middleware struct {
	store    Store
	limit    int
	window   time.Duration
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDisabled disables rate limiting entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// New limits each caller to limit requests per window. A non-positive limit
// disables the middleware.
func New(store Store, limit int, window time.Duration, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limit:  limit,
		window: window,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if limit <= 0 || window <= 0 {
		m.disabled = true
	}
	return m
}

// Limit returns middleware sharing one bucket per caller across every route
// it wraps with the same scope. Store failures let the request through.
func (m *Middleware) Limit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			id := requestcontext.InstallID(ctx)
			if id == "" {
				id = requestcontext.ClientIP(ctx)
			}

			result, err := m.store.Allow(ctx, models.Key(scope, id), m.limit, m.window)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"scope", scope,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "too many requests, try again later",
		RetryAfter: result.RetryAfter,
	})
}
