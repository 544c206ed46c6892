//go:build wireinject

package di

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/infutrix/backoffice-api/internal/app"
	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/http/handler"
	"github.com/infutrix/backoffice-api/internal/http/router"
	"github.com/infutrix/backoffice-api/internal/mail"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/service"
)

var repositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewCategoryRepository,
	repository.NewBlogRepository,
	repository.NewMediaRepository,
	repository.NewOfficeRepository,
	repository.NewJobOpeningRepository,
	repository.NewApplicationRepository,
	repository.NewLeadRepository,
	wire.Bind(new(repository.UserRepository), new(*repository.GormUserRepository)),
	wire.Bind(new(service.UserStore), new(*repository.GormUserRepository)),
	wire.Bind(new(repository.CategoryRepository), new(*repository.GormCategoryRepository)),
	wire.Bind(new(repository.BlogRepository), new(*repository.GormBlogRepository)),
	wire.Bind(new(repository.MediaRepository), new(*repository.GormMediaRepository)),
	wire.Bind(new(repository.OfficeRepository), new(*repository.GormOfficeRepository)),
	wire.Bind(new(repository.JobOpeningRepository), new(*repository.GormJobOpeningRepository)),
	wire.Bind(new(repository.ApplicationRepository), new(*repository.GormApplicationRepository)),
	wire.Bind(new(repository.LeadRepository), new(*repository.GormLeadRepository)),
)

var serviceSet = wire.NewSet(
	provideRedisClient,
	provideSessionStore,
	provideJWTManager,
	provideAuthService,
	provideFieldCipher,
	provideBlobStore,
	provideMailDispatcher,
	wire.Bind(new(service.Mailer), new(*mail.Dispatcher)),
	wire.Bind(new(app.Drainer), new(*mail.Dispatcher)),
	service.NewCareersService,
	service.NewLeadService,
	service.NewMediaService,
)

var httpSet = wire.NewSet(
	provideCookieOptions,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewCategoryHandler,
	handler.NewBlogHandler,
	handler.NewOfficeHandler,
	handler.NewCareersHandler,
	handler.NewApplicationHandler,
	handler.NewLeadHandler,
	handler.NewMediaHandler,
	provideHandlers,
	provideRateLimiters,
	provideReadiness,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

func InitializeApp(cfg *config.Config, logger *slog.Logger, runtime *observability.Runtime) (*app.App, error) {
	wire.Build(
		provideDB,
		repositorySet,
		serviceSet,
		httpSet,
		provideStop,
		newApp,
	)
	return nil, nil
}
