package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/http/handler"
	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	ActivityHandler     *handler.ActivityHandler
	ContactHandler      *handler.ContactHandler
	AdminContactHandler *handler.AdminContactHandler
	PageHandler         *handler.PageHandler
	HealthHandler       *handler.HealthHandler
	Identity            service.IdentityServiceInterface
	CORSOrigins         []string
	BodyLimitBytes      int64
	Landing             string
	APIRateLimiter      RateLimitMiddleware
	AuthRateLimiter     RateLimitMiddleware
	ContactRateLimiter  RateLimitMiddleware
	EnableOTelHTTP      bool
}

type RateLimitMiddleware func(http.Handler) http.Handler

func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(mw RateLimitMiddleware) func(http.Handler) http.Handler {
	if mw == nil {
		return passthrough
	}
	return mw
}

func NewRouter(dep Dependencies) http.Handler {
	bodyLimit := dep.BodyLimitBytes
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(bodyLimit))

	r.Get("/health/live", dep.HealthHandler.Live)
	r.Get("/health/ready", dep.HealthHandler.Ready)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionLoader(dep.Identity))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RouteGuard(dep.Landing))
			r.Get("/", dep.PageHandler.Home)
			r.Get("/contact", dep.PageHandler.Contact)
			r.Get(middleware.SignInPath, dep.PageHandler.SignIn)
			r.Get("/dashboard", dep.PageHandler.Dashboard)
			r.Get("/dashboard/*", dep.PageHandler.Dashboard)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(orPassthrough(dep.APIRateLimiter))

			r.Route("/auth", func(r chi.Router) {
				r.Use(orPassthrough(dep.AuthRateLimiter))
				r.Get("/signin/google", dep.AuthHandler.GoogleSignIn)
				r.Get("/callback/google", dep.AuthHandler.GoogleCallback)
				r.Get("/session", dep.AuthHandler.Session)
				r.Get("/csrf", dep.AuthHandler.CSRF)
				r.Get("/providers", dep.AuthHandler.Providers)
				r.With(middleware.CSRF).Post("/signout", dep.AuthHandler.SignOut)
			})

			r.Get("/activities", dep.ActivityHandler.List)
			r.Post("/activities", dep.ActivityHandler.Create)

			r.With(orPassthrough(dep.ContactRateLimiter)).Post("/contact", dep.ContactHandler.Submit)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Get("/contacts", dep.AdminContactHandler.List)
				r.With(middleware.CSRF).Patch("/contacts/{id}/status", dep.AdminContactHandler.UpdateStatus)
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
