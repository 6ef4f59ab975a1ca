package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/http/response"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/security"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the request's authenticated identity after refresh.
type Session struct {
	Claims  security.SessionClaims
	Expires time.Time
}

// SessionLoader attaches the session, if any, to the request context. Every
// request carrying a valid token re-reads role and id from the store.
// Invalid or expired tokens are treated as anonymous.
func SessionLoader(identity service.IdentityServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := security.GetCookie(r, security.SessionCookieName)
			if err != nil || raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := identity.ParseSession(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			refreshed, _ := identity.Refresh(r.Context(), *claims)
			s := &Session{Claims: refreshed}
			if claims.ExpiresAt != nil {
				s.Expires = claims.ExpiresAt.Time
			}
			noteLogIdentity(r.Context(), refreshed.UserID, refreshed.Role)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok && s != nil && s.Claims.Email != ""
}

// RequireSession answers 401 for anonymous API calls.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", i18n.For(r).Sprintf(i18n.MsgAuthRequired), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 403 unless the refreshed session role matches.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", i18n.For(r).Sprintf(i18n.MsgAuthRequired), nil)
				return
			}
			if s.Claims.Role != role {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", i18n.For(r).Sprintf(i18n.MsgForbidden), map[string]string{"required_role": role})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	SignInPath     = "/auth/signin"
	dashboardPath  = "/dashboard"
	callbackURLKey = "callbackUrl"
)

// RouteGuard sends anonymous visitors of /dashboard and its subpaths to the
// sign-in page, and signed-in visitors of the sign-in page to landing.
func RouteGuard(landing string) func(http.Handler) http.Handler {
	if landing == "" {
		landing = dashboardPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, signedIn := SessionFromContext(r.Context())
			p := r.URL.Path
			switch {
			case isDashboardPath(p) && !signedIn:
				target := SignInPath + "?" + url.Values{callbackURLKey: {p}}.Encode()
				http.Redirect(w, r, target, http.StatusFound)
				return
			case p == SignInPath && signedIn:
				http.Redirect(w, r, landing, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isDashboardPath(p string) bool {
	return p == dashboardPath || strings.HasPrefix(p, dashboardPath+"/")
}
