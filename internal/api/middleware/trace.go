package middleware

import (
	"log/slog"
	"net/http"

	"github.com/eduforge/aigen-api/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID and stores it in the
// request context. It runs first in the chain so every later handler and
// the error responses report the same ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
