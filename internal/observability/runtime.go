package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sandeepkv93/codereview-portal/internal/config"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Runtime owns the OTel providers for the portal process. Providers for
// disabled signals are either nil (logs) or local no-export providers.
type Runtime struct {
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider

	// stop runs in reverse registration order.
	stop []func(context.Context) error
}

func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	res, err := portalResource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{}
	fail := func(err error) (*Runtime, error) {
		_ = rt.Shutdown(ctx)
		return nil, err
	}

	if rt.LoggerProvider, err = initLoggerProvider(ctx, cfg, res, logger); err != nil {
		return fail(err)
	}
	if rt.LoggerProvider != nil {
		rt.stop = append(rt.stop, rt.LoggerProvider.Shutdown)
	}
	if rt.MeterProvider, err = initMeterProvider(ctx, cfg, res, logger); err != nil {
		return fail(err)
	}
	rt.stop = append(rt.stop, rt.MeterProvider.Shutdown)
	if rt.TracerProvider, err = initTracerProvider(ctx, cfg, res, logger); err != nil {
		return fail(err)
	}
	rt.stop = append(rt.stop, rt.TracerProvider.Shutdown)

	logger.Info("observability ready",
		"store_driver", cfg.StoreDriver,
		"logs", cfg.OTELLogsEnabled,
		"metrics", cfg.OTELMetricsEnabled,
		"tracing", cfg.OTELTracingEnabled,
	)
	return rt, nil
}

// Shutdown flushes spans first and logs last, so log records emitted while
// the other providers stop still reach the exporter.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.stop) - 1; i >= 0; i-- {
		if err := r.stop[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.stop = nil
	return errors.Join(errs...)
}
