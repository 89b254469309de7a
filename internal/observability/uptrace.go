package observability

import (
	"context"
	"net/url"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/federation-awards/internal/config"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
)

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global tracer and meter providers. The upstream
// API host and template source are added as resource attributes.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	attrs := resourceAttributes(cfg)
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attrs...),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"resource_attributes", len(attrs),
	)

	return uptrace.Shutdown, nil
}

func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if u, err := url.Parse(cfg.FederationAPIBaseURL); err == nil && u.Host != "" {
		attrs = append(attrs, attribute.String("federation.api.host", u.Host))
	}
	if src := strings.TrimSpace(cfg.TemplateSource); src != "" {
		attrs = append(attrs, attribute.String("diploma.template_source", src))
	}
	return attrs
}
