package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one structured entry per request with the status, duration,
// response size and request metadata. Panics are logged at error level and re-raised.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			var panicValue any

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
					if panicValue != nil {
						status = http.StatusInternalServerError
					}
				}

				if logger != nil {
					level := levelFromStatus(status)
					attrs := []slog.Attr{
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Int("status", status),
						slog.Float64("duration_ms", float64(time.Since(start))/float64(time.Millisecond)),
						slog.Int("bytes", ww.BytesWritten()),
						slog.String("remote_addr", r.RemoteAddr),
						slog.String("user_agent", r.UserAgent()),
					}
					if route := routePattern(r); route != "" {
						attrs = append(attrs, slog.String("route", route))
					}
					if id := chimw.GetReqID(r.Context()); id != "" {
						attrs = append(attrs, slog.String("request_id", id))
					}
					if panicValue != nil {
						level = slog.LevelError
						attrs = append(attrs, slog.Any("panic", panicValue))
					}
					logger.LogAttrs(r.Context(), level, "http request", attrs...)
				}
				if panicValue != nil {
					panic(panicValue)
				}
			}()

			func() {
				defer func() {
					if rec := recover(); rec != nil {
						panicValue = rec
					}
				}()
				next.ServeHTTP(ww, r)
			}()
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}

func levelFromStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
