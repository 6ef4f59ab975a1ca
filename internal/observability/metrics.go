package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "codereview-portal"

type AppMetrics struct {
	authSignInCounter        metric.Int64Counter
	authSessionCounter       metric.Int64Counter
	authSignOutCounter       metric.Int64Counter
	authReqDuration          metric.Float64Histogram
	oauthGoogleReqDuration   metric.Float64Histogram
	roleCacheCounter         metric.Int64Counter
	csrfValidationCounter    metric.Int64Counter
	rateLimitDecisionCounter metric.Int64Counter
	rateLimitRetryAfter      metric.Float64Histogram
	activityOpCounter        metric.Int64Counter
	activityListSize         metric.Float64Histogram
	contactSubmitCounter     metric.Int64Counter
	contactNotifyCounter     metric.Int64Counter
	contactNotifyDuration    metric.Float64Histogram
	adminContactCounter      metric.Int64Counter
	repositoryOpsCounter     metric.Int64Counter
	storeConnectCounter      metric.Int64Counter
	storeConnectDuration     metric.Float64Histogram
	healthCheckResultCounter metric.Int64Counter
	healthCheckDuration      metric.Float64Histogram
	toolCommandRuns          metric.Int64Counter
	toolCommandDuration      metric.Float64Histogram
	loadgenRequestsCounter   metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func initMeterProvider(ctx context.Context, cfg *config.Config, res *resource.Resource, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, wrapExporterErr("metric", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(latencyViews()...),
	)
	otel.SetMeterProvider(mp)
	if err := installAppMetrics(mp); err != nil {
		return nil, err
	}
	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint, "interval", cfg.OTELMetricsExportInterval)
	return mp, nil
}

// Request-path histograms share sub-second buckets; notification and store
// connect latencies get a longer tail for SMTP and cold mongo handshakes.
func latencyViews() []sdkmetric.View {
	fast := sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
		Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}}
	slow := sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
		Boundaries: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	}}
	return []sdkmetric.View{
		sdkmetric.NewView(sdkmetric.Instrument{Name: "auth.request.duration"}, fast),
		sdkmetric.NewView(sdkmetric.Instrument{Name: "health.check.duration"}, fast),
		sdkmetric.NewView(sdkmetric.Instrument{Name: "contact.notification.duration"}, slow),
		sdkmetric.NewView(sdkmetric.Instrument{Name: "store.connect.duration"}, slow),
	}
}

func installAppMetrics(mp *sdkmetric.MeterProvider) error {
	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	return nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var firstErr error
	counter := func(name string) metric.Int64Counter {
		c, err := meter.Int64Counter(name)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create counter %s: %w", name, err)
		}
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithUnit("s"), metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create histogram %s: %w", name, err)
		}
		return h
	}
	plain := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("create histogram %s: %w", name, err)
		}
		return h
	}

	m := &AppMetrics{
		authSignInCounter:        counter("auth.signin.attempts"),
		authSessionCounter:       counter("auth.session.refresh.events"),
		authSignOutCounter:       counter("auth.signout.attempts"),
		authReqDuration:          seconds("auth.request.duration", "Duration of auth endpoint requests in seconds"),
		oauthGoogleReqDuration:   seconds("auth.oauth.google.request.duration", "Duration of Google OAuth upstream calls in seconds"),
		roleCacheCounter:         counter("auth.role_cache.events"),
		csrfValidationCounter:    counter("security.csrf.validation.events"),
		rateLimitDecisionCounter: counter("http.rate_limit.decisions"),
		rateLimitRetryAfter:      seconds("http.rate_limit.retry_after", "Retry-after duration in seconds for throttled requests"),
		activityOpCounter:        counter("activity.operation.events"),
		activityListSize:         plain("activity.list.size", "Number of activities returned per feed request"),
		contactSubmitCounter:     counter("contact.submission.events"),
		contactNotifyCounter:     counter("contact.notification.events"),
		contactNotifyDuration:    seconds("contact.notification.duration", "Duration of admin notification delivery in seconds"),
		adminContactCounter:      counter("admin.contact.mutations"),
		repositoryOpsCounter:     counter("repository.operations"),
		storeConnectCounter:      counter("store.connect.events"),
		storeConnectDuration:     seconds("store.connect.duration", "Duration of store connection attempts in seconds"),
		healthCheckResultCounter: counter("health.check.results"),
		healthCheckDuration:      seconds("health.check.duration", "Duration of health dependency checks in seconds"),
		toolCommandRuns:          counter("tool.command.runs"),
		toolCommandDuration:      seconds("tool.command.duration", "Duration of ops tool commands in seconds"),
		loadgenRequestsCounter:   counter("loadgen.requests"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordAuthSignIn(ctx context.Context, provider, status string) {
	if m := current(); m != nil {
		m.authSignInCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("status", status),
		))
	}
}

func RecordSessionRefresh(ctx context.Context, outcome string) {
	if m := current(); m != nil {
		m.authSessionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordAuthSignOut(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authSignOutCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordAuthRequestDuration(ctx context.Context, endpoint, status string, d time.Duration) {
	if m := current(); m != nil {
		m.authReqDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		))
	}
}

func RecordGoogleOAuthRequestDuration(ctx context.Context, stage, status string, d time.Duration) {
	if m := current(); m != nil {
		m.oauthGoogleReqDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		))
	}
}

// RecordRoleCacheEvent counts hit, miss, error and invalidate outcomes of the role cache.
func RecordRoleCacheEvent(ctx context.Context, backend, outcome string) {
	if m := current(); m != nil {
		m.roleCacheCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordCSRFValidation(ctx context.Context, outcome string) {
	if m := current(); m != nil {
		m.csrfValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, backend string) {
	if m := current(); m != nil {
		m.rateLimitDecisionCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("outcome", outcome),
			attribute.String("backend", backend),
		))
	}
}

func RecordRateLimitRetryAfter(ctx context.Context, scope string, retryAfter time.Duration) {
	if m := current(); m != nil {
		m.rateLimitRetryAfter.Record(ctx, retryAfter.Seconds(), metric.WithAttributes(attribute.String("scope", scope)))
	}
}

func RecordActivityOperation(ctx context.Context, action, status string) {
	if m := current(); m != nil {
		m.activityOpCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status", status),
		))
	}
}

func RecordActivityListSize(ctx context.Context, n int) {
	if m := current(); m != nil {
		m.activityListSize.Record(ctx, float64(n))
	}
}

func RecordContactSubmission(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.contactSubmitCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordContactNotification(ctx context.Context, channel, outcome string, d time.Duration) {
	m := current()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	)
	m.contactNotifyCounter.Add(ctx, 1, attrs)
	m.contactNotifyDuration.Record(ctx, d.Seconds(), attrs)
}

func RecordAdminContactMutation(ctx context.Context, action, status string) {
	if m := current(); m != nil {
		m.adminContactCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status", status),
		))
	}
}

func RecordRepositoryOperation(ctx context.Context, repo, op, outcome string) {
	if m := current(); m != nil {
		m.repositoryOpsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("repository", repo),
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordStoreConnect(ctx context.Context, driver, outcome string, d time.Duration) {
	m := current()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("driver", driver),
		attribute.String("outcome", outcome),
	)
	m.storeConnectCounter.Add(ctx, 1, attrs)
	m.storeConnectDuration.Record(ctx, d.Seconds(), attrs)
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	if m := current(); m != nil {
		m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("check", check),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordHealthCheckDuration(ctx context.Context, check string, d time.Duration) {
	if m := current(); m != nil {
		m.healthCheckDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("check", check)))
	}
}

func RecordToolCommandRun(ctx context.Context, tool, command, status string) {
	if m := current(); m != nil {
		m.toolCommandRuns.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("command", command),
			attribute.String("status", status),
		))
	}
}

func RecordToolCommandDuration(ctx context.Context, tool, command, status string, d time.Duration) {
	if m := current(); m != nil {
		m.toolCommandDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("command", command),
			attribute.String("status", status),
		))
	}
}

func RecordLoadgenRequest(ctx context.Context, statusClass, profile string) {
	if m := current(); m != nil {
		m.loadgenRequestsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status_class", statusClass),
			attribute.String("profile", profile),
		))
	}
}
