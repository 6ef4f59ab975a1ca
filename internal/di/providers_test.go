package di

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout.Seconds() != 10 {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestProvideRouterDependencies(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		APIRateLimitPerMin: 100,
		AuthRatePerMin:     10,
		ContactRatePerMin:  5,
		BodyLimitBytes:     2048,
		DefaultLandingPath: "/dashboard",
		OTELMetricsEnabled: true,
	}
	dep := provideRouterDependencies(nil, nil, nil, nil, nil, nil, nil, middleware.NewLocalWindowLimiter(), cfg)
	if !dep.EnableOTelHTTP {
		t.Fatal("expected otel http enabled")
	}
	if len(dep.CORSOrigins) != 1 || dep.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", dep.CORSOrigins)
	}
	if dep.APIRateLimiter == nil || dep.AuthRateLimiter == nil || dep.ContactRateLimiter == nil {
		t.Fatal("expected every rate limiter to be built")
	}
	if dep.BodyLimitBytes != 2048 || dep.Landing != "/dashboard" {
		t.Fatalf("unexpected dependencies: %+v", dep)
	}
}

func TestContactRateLimiterEnforcesLimit(t *testing.T) {
	mw := buildRateLimiter(middleware.NewLocalWindowLimiter(), "contact", 1, middleware.FailClosed)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.5:4444"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %v", codes)
	}
}

func TestProvideRedisClient(t *testing.T) {
	if client := provideRedisClient(&config.Config{}, slog.Default()); client != nil {
		t.Fatal("expected nil redis client when redis is disabled")
	}
	cfg := &config.Config{RedisEnabled: true, RedisAddr: "localhost:6379", RedisPassword: "pw", RedisDB: 2}
	client := provideRedisClient(cfg, slog.Default())
	rc, ok := client.(*redis.Client)
	if !ok {
		t.Fatalf("expected *redis.Client, got %T", client)
	}
	t.Cleanup(func() { _ = rc.Close() })
	if opts := rc.Options(); opts.Addr != "localhost:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected redis options: %+v", opts)
	}
}

func TestProvideRoleCacheStoreSelection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cases := []struct {
		name   string
		ttl    time.Duration
		client redis.UniversalClient
		want   string
	}{
		{"disabled", 0, client, "none"},
		{"redis", time.Minute, client, "redis"},
		{"memory", time.Minute, nil, "memory"},
	}
	for _, tc := range cases {
		store := provideRoleCacheStore(&config.Config{RoleCacheTTL: tc.ttl, RedisPrefix: "crp"}, tc.client)
		if store.Backend() != tc.want {
			t.Fatalf("%s: expected %s store, got %s", tc.name, tc.want, store.Backend())
		}
	}
}

func TestProvideLimiterBackend(t *testing.T) {
	if got := provideLimiterBackend(&config.Config{}, nil).Backend(); got != "local" {
		t.Fatalf("expected local limiter, got %s", got)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	if got := provideLimiterBackend(&config.Config{RedisPrefix: "crp"}, client).Backend(); got != "redis" {
		t.Fatalf("expected redis limiter, got %s", got)
	}
}

func TestSQLiteGraphServesReadiness(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:           config.StoreDriverSQLite,
		DatabaseURL:           "file:di_test?mode=memory&cache=shared",
		ReadinessProbeTimeout: time.Second,
		RoleCacheTTL:          time.Minute,
		NotificationTimeout:   time.Second,
	}
	store, err := provideStoreBackend(cfg, slog.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	stores := repository.NewStores(store)
	if provideUserRepository(stores) == nil || provideActivityRepository(stores) == nil || provideContactRepository(stores) == nil {
		t.Fatal("expected repositories for sqlite backend")
	}
	contacts := provideContactService(cfg, provideContactRepository(stores), service.NewDisabledNotifier(slog.Default()), slog.Default())
	if contacts == nil {
		t.Fatal("expected contact service")
	}

	ready, results := provideReadinessProbeRunner(cfg, store, nil).Ready(context.Background())
	if !ready || len(results) != 1 || results[0].Name != "sql" {
		t.Fatalf("expected sql readiness only, got ready=%v results=%+v", ready, results)
	}
}

func TestProvideApp(t *testing.T) {
	cfg := &config.Config{HTTPPort: "8080", ShutdownTimeout: 20 * time.Second, ShutdownHTTPDrain: 10 * time.Second}
	logger := slog.Default()
	srv := &http.Server{Addr: ":8080", ReadHeaderTimeout: time.Second}
	runtime := &observability.Runtime{}
	store := &database.Backend{Driver: config.StoreDriverMongo}

	app := provideApp(cfg, logger, srv, runtime, store, nil, nil, nil)
	if app == nil {
		t.Fatal("expected app")
	}
	if app.Config != cfg || app.Logger != logger || app.Server != srv || app.Observability != runtime || app.Store != store {
		t.Fatal("app dependencies not wired as expected")
	}
	if app.ShutdownTimeout != 20*time.Second || app.ShutdownHTTPDrainTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeouts: %+v", app)
	}
}
