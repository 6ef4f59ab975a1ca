package observability

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sandeepkv93/codereview-portal/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

const serviceNamespace = "codereview"

// portalResource describes this process to every OTel signal. The store
// driver is included so dashboards can split mongo and SQL deployments.
func portalResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", cfg.OTELServiceName),
		attribute.String("service.namespace", serviceNamespace),
		attribute.String("deployment.environment", cfg.OTELEnvironment),
		attribute.String("portal.store.driver", cfg.StoreDriver),
	}
	if u, err := url.Parse(cfg.AppBaseURL); err == nil && u.Host != "" {
		attrs = append(attrs, attribute.String("portal.host", u.Host))
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}
	return res, nil
}

func wrapExporterErr(signal string, err error) error {
	return fmt.Errorf("create otlp %s exporter: %w", signal, err)
}
