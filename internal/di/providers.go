package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/codereview-portal/internal/app"
	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/health"
	"github.com/sandeepkv93/codereview-portal/internal/http/handler"
	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/http/router"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/security"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideStoreBackend,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewStores,
	provideUserRepository,
	provideActivityRepository,
	provideContactRepository,
)

var SecuritySet = wire.NewSet(
	provideSessionTokenManager,
	provideCookieManager,
)

var ServiceSet = wire.NewSet(
	provideRoleCacheStore,
	provideRoleResolver,
	service.NewGoogleOAuthProvider,
	wire.Bind(new(service.OAuthProvider), new(*service.GoogleOAuthProvider)),
	service.NewIdentityService,
	service.NewActivityService,
	service.NewContactNotifier,
	provideContactService,
	service.NewAdminContactService,
	wire.Bind(new(service.IdentityServiceInterface), new(*service.IdentityService)),
	wire.Bind(new(service.ActivityServiceInterface), new(*service.ActivityService)),
	wire.Bind(new(service.ContactServiceInterface), new(*service.ContactService)),
	wire.Bind(new(service.AdminContactServiceInterface), new(*service.AdminContactService)),
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	handler.NewActivityHandler,
	handler.NewContactHandler,
	handler.NewAdminContactHandler,
	handler.NewPageHandler,
	handler.NewHealthHandler,
	provideLimiterBackend,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	logger := observability.InitLogger(cfg, runtime.LoggerProvider)
	slog.SetDefault(logger)
	return logger
}

func provideStoreBackend(cfg *config.Config, logger *slog.Logger) (*database.Backend, error) {
	return database.OpenBackend(cfg, logger)
}

func provideUserRepository(s repository.Stores) repository.UserRepository { return s.Users }

func provideActivityRepository(s repository.Stores) repository.ActivityRepository {
	return s.Activities
}

func provideContactRepository(s repository.Stores) repository.ContactRepository { return s.Contacts }

// provideRedisClient returns nil when redis is disabled; every consumer falls
// back to its in-process implementation.
func provideRedisClient(cfg *config.Config, logger *slog.Logger) redis.UniversalClient {
	if !cfg.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	observability.InstrumentRedisClient(client, logger)
	return client
}

func provideSessionTokenManager(cfg *config.Config) (*security.SessionTokenManager, error) {
	return security.NewSessionTokenManager(cfg.SessionSecret(), cfg.SessionIssuer, cfg.SessionAudience, cfg.SessionMaxAge)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideRoleCacheStore(cfg *config.Config, redisClient redis.UniversalClient) service.RoleCacheStore {
	switch {
	case cfg.RoleCacheTTL <= 0:
		return service.NewNoopRoleCacheStore()
	case redisClient != nil:
		return service.NewRedisRoleCacheStore(redisClient, cfg.RedisPrefix)
	default:
		return service.NewInMemoryRoleCacheStore()
	}
}

func provideRoleResolver(cfg *config.Config, users repository.UserRepository, store service.RoleCacheStore, logger *slog.Logger) *service.RoleResolver {
	return service.NewRoleResolver(users, store, cfg.RoleCacheTTL, logger)
}

func provideContactService(cfg *config.Config, contacts repository.ContactRepository, notifier service.ContactNotifier, logger *slog.Logger) *service.ContactService {
	return service.NewContactService(contacts, notifier, cfg.NotificationTimeout, logger)
}

func provideAuthHandler(identity service.IdentityServiceInterface, cookieMgr *security.CookieManager, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(identity, cookieMgr, cfg.SessionSecret(), cfg.AppBaseURL, cfg.DefaultLandingPath)
}

func provideLimiterBackend(cfg *config.Config, redisClient redis.UniversalClient) middleware.Limiter {
	if redisClient != nil {
		return middleware.NewRedisWindowLimiter(redisClient, cfg.RedisPrefix)
	}
	return middleware.NewLocalWindowLimiter()
}

// buildRateLimiter keeps the API open when a shared limiter backend fails,
// but closes the auth and contact endpoints, which are the abuse targets.
func buildRateLimiter(limiter middleware.Limiter, scope string, perMin int, mode middleware.FailureMode) router.RateLimitMiddleware {
	return middleware.NewRateLimiter(limiter, scope, perMin, time.Minute, mode).Middleware()
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	activityHandler *handler.ActivityHandler,
	contactHandler *handler.ContactHandler,
	adminContactHandler *handler.AdminContactHandler,
	pageHandler *handler.PageHandler,
	healthHandler *handler.HealthHandler,
	identity service.IdentityServiceInterface,
	limiter middleware.Limiter,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:         authHandler,
		ActivityHandler:     activityHandler,
		ContactHandler:      contactHandler,
		AdminContactHandler: adminContactHandler,
		PageHandler:         pageHandler,
		HealthHandler:       healthHandler,
		Identity:            identity,
		CORSOrigins:         cfg.CORSAllowedOrigins,
		BodyLimitBytes:      cfg.BodyLimitBytes,
		Landing:             cfg.DefaultLandingPath,
		APIRateLimiter:      buildRateLimiter(limiter, "api", cfg.APIRateLimitPerMin, middleware.FailOpen),
		AuthRateLimiter:     buildRateLimiter(limiter, "auth", cfg.AuthRatePerMin, middleware.FailClosed),
		ContactRateLimiter:  buildRateLimiter(limiter, "contact", cfg.ContactRatePerMin, middleware.FailClosed),
		EnableOTelHTTP:      cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(cfg *config.Config, store *database.Backend, redisClient redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.NewDBChecker(store.SQL)}
	if store.Mongo != nil {
		checkers = append(checkers, health.NewMongoChecker(store.Mongo))
	}
	if redisClient != nil {
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ServerStartGracePeriod, checkers...)
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	store *database.Backend,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
	contacts *service.ContactService,
) *app.App {
	return app.New(cfg, logger, server, runtime, store, redisClient, readiness, contacts)
}
