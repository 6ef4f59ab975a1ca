package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/database"
	"github.com/sandeepkv93/codereview-portal/internal/health"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Store         *database.Backend
	Redis         redis.UniversalClient
	Readiness     *health.ProbeRunner
	// Contacts is drained on shutdown so queued admin notifications are not cut off.
	Contacts *service.ContactService

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	store *database.Backend,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
	contacts *service.ContactService,
) *App {
	return &App{
		Config:                       cfg,
		Logger:                       logger,
		Server:                       server,
		Observability:                runtime,
		Store:                        store,
		Redis:                        redisClient,
		Readiness:                    readiness,
		Contacts:                     contacts,
		ShutdownTimeout:              cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout:     cfg.ShutdownHTTPDrain,
		ShutdownObservabilityTimeout: 8 * time.Second,
	}
}

// Run prepares the store in the background, serves HTTP until ctx is
// cancelled or the listener fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	go a.prepareStore(ctx)

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr, "store", a.Store.Driver)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown requested")
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	timeout := a.ShutdownTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return errors.Join(runErr, a.Shutdown(shutdownCtx))
}

func (a *App) prepareStore(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	details, err := a.Store.Prepare(ctx)
	if err != nil {
		a.Logger.Warn("store preparation failed, continuing", "driver", a.Store.Driver, "error", err)
		return
	}
	a.Logger.Info("store prepared", "driver", a.Store.Driver, "details", details)
}

// Shutdown stops accepting requests, lets queued contact notifications
// finish, flushes telemetry and closes the backends. Every step runs even
// when an earlier one fails.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	step := func(name string, limit time.Duration, fn func(context.Context) error) {
		stepCtx, cancel := ctx, context.CancelFunc(func() {})
		if limit > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, limit)
		}
		defer cancel()
		if err := fn(stepCtx); err != nil {
			a.Logger.Error("shutdown step failed", "step", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	step("http", a.ShutdownHTTPDrainTimeout, a.Server.Shutdown)
	if a.Contacts != nil {
		step("contact_notifications", 0, a.Contacts.Wait)
	}
	if a.Observability != nil {
		step("observability", a.ShutdownObservabilityTimeout, a.Observability.Shutdown)
	}
	if a.Redis != nil {
		step("redis", 0, func(context.Context) error { return a.Redis.Close() })
	}
	step("store", 0, a.Store.Close)
	return errors.Join(errs...)
}
