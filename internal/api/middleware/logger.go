package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// StructuredLogger emits one access-log line per request once the response
// has been written. The trace id is attached by the logging handler itself.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	accessLogger := logger.With("component", "http")
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				accessLogger.InfoContext(r.Context(), "Served request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_agent", r.UserAgent()),
					slog.Int("status", ww.Status()),
					slog.Float64("latency_ms", float64(time.Since(start).Nanoseconds())/1e6),
					slog.Int("bytes_written", ww.BytesWritten()),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
