package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const logIdentityContextKey contextKey = "log_identity"

// logIdentity lets inner middleware report who made the request back to the
// outer access log line.
type logIdentity struct {
	userID string
	role   string
}

func noteLogIdentity(ctx context.Context, userID, role string) {
	if id, ok := ctx.Value(logIdentityContextKey).(*logIdentity); ok {
		id.userID, id.role = userID, role
	}
}

// StructuredRequestLogger emits one slog line per request. 5xx log at error,
// 4xx at warn, everything else at info.
func StructuredRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		id := &logIdentity{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), logIdentityContextKey, id)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		routePattern := ""
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			routePattern = routeCtx.RoutePattern()
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", routePattern,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"client_ip", clientIPKey(r),
			"user_agent", r.UserAgent(),
		}
		if id.userID != "" {
			attrs = append(attrs, "user_id", id.userID, "role", id.role)
		}

		switch {
		case status >= http.StatusInternalServerError:
			slog.ErrorContext(r.Context(), "http.request", attrs...)
		case status >= http.StatusBadRequest:
			slog.WarnContext(r.Context(), "http.request", attrs...)
		default:
			slog.InfoContext(r.Context(), "http.request", attrs...)
		}
	})
}
