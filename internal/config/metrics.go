package config

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	configMetricsOnce sync.Once
	configCounter     metric.Int64Counter
)

func recordConfigValidationEvent(ctx context.Context, appEnv, outcome, errorClass string) {
	configMetricsOnce.Do(func() {
		counter, err := otel.Meter("backoffice-api").Int64Counter("config.load.events")
		if err == nil {
			configCounter = counter
		}
	})
	if configCounter == nil {
		return
	}
	configCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("app_env", normalizeAppEnv(appEnv)),
		attribute.String("outcome", outcome),
		attribute.String("error_class", errorClass),
	))
}

// normalizeAppEnv keeps the attribute bounded to the known environments.
func normalizeAppEnv(appEnv string) string {
	v := strings.TrimSpace(strings.ToLower(appEnv))
	switch v {
	case "":
		return "unknown"
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
		return v
	default:
		return "other"
	}
}

func classifyConfigLoadError(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "validate config:"):
		return "validation"
	case strings.Contains(msg, "parse config:"):
		if strings.Contains(msg, "required environment variable") {
			return "missing"
		}
		return "parse"
	default:
		return "load"
	}
}
