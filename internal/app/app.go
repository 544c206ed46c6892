package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/database"
	"github.com/infutrix/backoffice-api/internal/health"
	"github.com/infutrix/backoffice-api/internal/observability"
)

// Drainer is a background worker that finishes queued work on Close.
type Drainer interface {
	Close(ctx context.Context) error
}

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Mailer        Drainer
	Readiness     *health.ProbeRunner

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	stopBackground func()
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, db *gorm.DB, mailer Drainer, readiness *health.ProbeRunner, stop func()) *App {
	return &App{
		Config:                       cfg,
		Logger:                       logger,
		Server:                       server,
		Observability:                runtime,
		DB:                           db,
		Mailer:                       mailer,
		Readiness:                    readiness,
		ShutdownTimeout:              cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout:     cfg.ShutdownHTTPDrainTimeout,
		ShutdownObservabilityTimeout: cfg.ShutdownObservabilityTimeout,
		stopBackground:               stop,
	}
}

// StopBackgroundTasks releases clients owned by the dependency graph, such
// as the Redis connection pool.
func (a *App) StopBackgroundTasks() {
	if a.stopBackground != nil {
		a.stopBackground()
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "addr", a.Server.Addr, "env", a.Config.AppEnv)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}
	return errors.Join(serveErr, a.Shutdown(context.Background()))
}

// Shutdown drains HTTP, then the mail queue, then flushes telemetry and
// closes the database. Each phase gets its own timeout inside the overall
// budget, and every phase runs even if an earlier one failed.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, orDefault(a.ShutdownTimeout, 20*time.Second))
	defer cancel()
	var errs []error

	if a.Server != nil {
		drainCtx, drainCancel := context.WithTimeout(ctx, orDefault(a.ShutdownHTTPDrainTimeout, 10*time.Second))
		if err := a.Server.Shutdown(drainCtx); err != nil {
			errs = append(errs, fmt.Errorf("drain http: %w", err))
		}
		drainCancel()
	}

	if a.Mailer != nil {
		if err := a.Mailer.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain mail: %w", err))
		}
	}

	a.StopBackgroundTasks()

	if a.Observability != nil {
		obsCtx, obsCancel := context.WithTimeout(ctx, orDefault(a.ShutdownObservabilityTimeout, 5*time.Second))
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			errs = append(errs, fmt.Errorf("flush telemetry: %w", err))
		}
		obsCancel()
	}

	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("shutdown finished with errors", "error", err.Error())
	} else {
		a.Logger.Info("shutdown complete")
	}
	return err
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
