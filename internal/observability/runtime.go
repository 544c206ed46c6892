package observability

import (
	"context"
	"errors"
	"log/slog"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/infutrix/backoffice-api/internal/config"
)

type Runtime struct {
	Logger         *slog.Logger
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
	LoggerProvider *sdklog.LoggerProvider
}

// InitRuntime wires metrics, tracing and log export. The returned Logger
// should replace the bootstrap logger.
func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	logger, lp, err := InitLogging(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Join(err, shutdownLoggerProvider(ctx, lp))
	}
	tp, err := InitTracing(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx), shutdownLoggerProvider(ctx, lp))
	}
	return &Runtime{Logger: logger, MeterProvider: mp, TracerProvider: tp, LoggerProvider: lp}, nil
}

func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.MeterProvider != nil {
		if err := r.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.TracerProvider != nil {
		if err := r.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := shutdownLoggerProvider(ctx, r.LoggerProvider); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func shutdownLoggerProvider(ctx context.Context, lp *sdklog.LoggerProvider) error {
	if lp == nil {
		return nil
	}
	return lp.Shutdown(ctx)
}
