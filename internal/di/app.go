package di

import (
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/app"
	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/health"
	"github.com/infutrix/backoffice-api/internal/observability"
)

func newApp(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, db *gorm.DB, mailer app.Drainer, readiness *health.ProbeRunner, stop StopFunc) *app.App {
	return app.New(cfg, logger, server, runtime, db, mailer, readiness, stop)
}
