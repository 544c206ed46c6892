package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/infutrix/backoffice-api/internal/config"
)

const meterName = "backoffice-api"

type AppMetrics struct {
	authLoginCounter        metric.Int64Counter
	authRefreshCounter      metric.Int64Counter
	authLogoutCounter       metric.Int64Counter
	accessTokenCounter      metric.Int64Counter
	repositoryOpCounter     metric.Int64Counter
	emailCounter            metric.Int64Counter
	blobCounter             metric.Int64Counter
	rateLimitCounter        metric.Int64Counter
	sessionStoreLatencyHist metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
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
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	if err := RegisterMetrics(mp); err != nil {
		return nil, err
	}
	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

// RegisterMetrics creates the application instruments on mp and makes the
// Record* helpers emit through them.
func RegisterMetrics(mp metric.MeterProvider) error {
	meter := mp.Meter(meterName)
	m := &AppMetrics{}
	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
	}{
		{&m.authLoginCounter, "auth.login.attempts"},
		{&m.authRefreshCounter, "auth.refresh.attempts"},
		{&m.authLogoutCounter, "auth.logout.attempts"},
		{&m.accessTokenCounter, "auth.access_token.validations"},
		{&m.repositoryOpCounter, "repository.operations"},
		{&m.emailCounter, "mail.deliveries"},
		{&m.blobCounter, "storage.blob.operations"},
		{&m.rateLimitCounter, "http.rate_limit.decisions"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name); err != nil {
			return fmt.Errorf("create counter %s: %w", c.name, err)
		}
	}
	m.sessionStoreLatencyHist, err = meter.Float64Histogram("session.store.duration", metric.WithUnit("ms"))
	if err != nil {
		return fmt.Errorf("create session store histogram: %w", err)
	}

	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	return nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordAuthLogin(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authLoginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordAuthRefresh(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authRefreshCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordAuthLogout(ctx context.Context, status string) {
	if m := current(); m != nil {
		m.authLogoutCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

// RecordAccessTokenValidation counts gate decisions. source is bearer,
// cookie or none.
func RecordAccessTokenValidation(ctx context.Context, outcome, source string) {
	if m := current(); m != nil {
		m.accessTokenCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("source", source),
		))
	}
}

func RecordRepositoryOperation(ctx context.Context, repo, op, outcome string) {
	if m := current(); m != nil {
		m.repositoryOpCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("repository", repo),
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordEmailDelivery(ctx context.Context, template, outcome string) {
	if m := current(); m != nil {
		m.emailCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("template", template),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordBlobOperation(ctx context.Context, op, outcome string) {
	if m := current(); m != nil {
		m.blobCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}
}

func RecordRateLimitDecision(ctx context.Context, scope, decision, mode string) {
	if m := current(); m != nil {
		m.rateLimitCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("decision", decision),
			attribute.String("mode", mode),
		))
	}
}

func RecordSessionStoreDuration(ctx context.Context, op string, ms float64) {
	if m := current(); m != nil {
		m.sessionStoreLatencyHist.Record(ctx, ms, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func newResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}
