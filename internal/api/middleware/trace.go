package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// TraceIDHeader carries the trace ID on requests and responses.
const TraceIDHeader = "X-Trace-ID"

// TraceMiddleware adds a trace ID and a logger carrying it to the request context.
// A well-formed X-Trace-ID request header is reused; otherwise a new ID is
// generated. The ID is echoed in the response header.
//
// Apply it early in the chain so every later handler logs with trace_id.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Reuse the caller's trace ID when it is well formed, otherwise mint one
			ctx := r.Context()
			if incoming := r.Header.Get(TraceIDHeader); shared.IsTraceID(incoming) {
				ctx = shared.WithTraceID(ctx, incoming)
			} else {
				ctx = shared.SetTraceID(ctx)
			}
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
