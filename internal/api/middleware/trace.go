// Package middleware holds the request middleware shared by all routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/carbonforge/plinth/internal/platform/logger"
)

// Trace tags every request with a trace ID and stores a logger carrying it
// in the request context, so handler log lines can be correlated. Apply it
// early in the chain.
func Trace(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.NewString()
			reqLog := log.With(slog.String("trace_id", traceID))
			reqLog.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			ctx := logger.WithContext(r.Context(), reqLog)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
