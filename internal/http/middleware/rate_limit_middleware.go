package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
)

type Limiter interface {
	Backend() string
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type FailureMode string

const (
	FailOpen   FailureMode = "fail_open"
	FailClosed FailureMode = "fail_closed"
)

// RateLimiter applies one fixed-window budget per client IP within a scope.
// Scopes share a backend but never a counter.
type RateLimiter struct {
	limiter Limiter
	limit   int
	window  time.Duration
	mode    FailureMode
	scope   string
}

func NewRateLimiter(limiter Limiter, scope string, limit int, window time.Duration, mode FailureMode) *RateLimiter {
	if limiter == nil {
		limiter = NewLocalWindowLimiter()
	}
	if scope == "" {
		scope = "api"
	}
	return &RateLimiter{limiter: limiter, limit: limit, window: window, mode: mode, scope: scope}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := rl.decide(r)
			if !allowed {
				rl.reject(w, r, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// decide consults the backend and records the outcome. A backend error is
// resolved by the failure mode: open lets the request through, closed
// throttles it for a whole window.
func (rl *RateLimiter) decide(r *http.Request) (bool, time.Duration) {
	ctx := r.Context()
	backend := rl.limiter.Backend()
	allowed, retryAfter, err := rl.limiter.Allow(ctx, rl.scope+":"+clientIPKey(r), rl.limit, rl.window)
	switch {
	case err != nil && rl.mode == FailOpen:
		observability.RecordRateLimitDecision(ctx, rl.scope, "backend_error_open", backend)
		slog.WarnContext(ctx, "rate limiter backend unavailable, allowing request", "scope", rl.scope, "backend", backend, "error", err)
		return true, 0
	case err != nil:
		observability.RecordRateLimitDecision(ctx, rl.scope, "backend_error_closed", backend)
		slog.WarnContext(ctx, "rate limiter backend unavailable, rejecting request", "scope", rl.scope, "backend", backend, "error", err)
		return false, rl.window
	case !allowed:
		observability.RecordRateLimitDecision(ctx, rl.scope, "deny", backend)
		return false, retryAfter
	default:
		observability.RecordRateLimitDecision(ctx, rl.scope, "allow", backend)
		return true, 0
	}
}

func (rl *RateLimiter) reject(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	observability.RecordRateLimitRetryAfter(r.Context(), rl.scope, retryAfter)
	w.Header().Set("Retry-After", retryAfterHeader(retryAfter))
	response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", i18n.For(r).Sprintf(i18n.MsgRateLimited), nil)
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func retryAfterHeader(d time.Duration) string {
	seconds := int(d.Round(time.Second).Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
