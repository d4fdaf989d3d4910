// Package logging configures the process-wide slog logger and derives
// request-scoped loggers from the context: the logger installed by
// Middleware, tagged with chi's request id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup builds a logger for the given environment, installs it as the slog
// default and returns it.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
//
// A non-empty level overrides the env-derived one.
func Setup(env, level string) *slog.Logger {
	logger := New(os.Stdout, env, level)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w without touching the slog default.
func New(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	switch env {
	case "prod":
		opts.Level = slog.LevelInfo
		if level != "" {
			opts.Level = parseLevel(level)
		}
		return slog.New(slog.NewJSONHandler(w, opts))
	case "staging":
		if level != "" {
			opts.Level = parseLevel(level)
		}
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		if level != "" {
			opts.Level = parseLevel(level)
		}
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Middleware installs logger in every request context. A nil logger leaves
// requests on the slog default.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

// FromContext returns the context's logger, or the default one, enriched
// with the chi request id when the context carries one.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With(slog.String("request_id", reqID))
	}

	return logger
}
