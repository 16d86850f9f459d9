// Package sentry reports unexpected failures to Sentry. Every function is a
// no-op until Init succeeds with a DSN, so callers never need to check.
package sentry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config selects the Sentry project. An empty DSN disables reporting.
type Config struct {
	DSN         string
	Environment string
	Release     string
}

// Init configures the global Sentry client. It reports whether error
// tracking is active; an empty DSN leaves it disabled.
func Init(cfg Config, logger *slog.Logger) (bool, error) {
	if cfg.DSN == "" {
		logger.Debug("sentry DSN not configured, error tracking disabled")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		BeforeSend:  scrub,
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}

	logger.Info("sentry initialized", "environment", cfg.Environment, "release", cfg.Release)
	return true, nil
}

// scrub drops credentials from captured requests.
func scrub(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil && event.Request.Headers != nil {
		delete(event.Request.Headers, "Authorization")
		delete(event.Request.Headers, "Cookie")
		delete(event.Request.Headers, "X-Api-Key")
	}
	return event
}

// CaptureException records err with optional context values.
func CaptureException(err error, context map[string]any, logger *slog.Logger) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for key, value := range context {
			scope.SetContext(key, sentry.Context{"value": value})
		}
		sentry.CaptureException(err)
	})
	logger.Debug("exception captured", "error", err)
}

// CaptureWarning records a problem that did not fail the operation, such as
// a git push or mirror write that was skipped after the entry was saved.
func CaptureWarning(message string, context map[string]any, logger *slog.Logger) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelWarning)
		for key, value := range context {
			scope.SetContext(key, sentry.Context{"value": value})
		}
		sentry.CaptureMessage(message)
	})
	logger.Debug("warning captured", "message", message)
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// RecoverAndCapture reports a panic and re-panics. Use it deferred at the
// top of main and long-running goroutines.
func RecoverAndCapture(logger *slog.Logger) {
	if r := recover(); r != nil {
		CaptureException(panicError(r), nil, logger)
		Flush(2 * time.Second)
		panic(r)
	}
}

// Middleware converts handler panics into 500 responses and reports them.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := panicError(rec)
					logger.Error("handler panic", "method", r.Method, "path", r.URL.Path, "error", err)
					CaptureException(err, map[string]any{
						"request": r.Method + " " + r.URL.Path,
					}, logger)
					http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
