package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/database"
	"github.com/infutrix/backoffice-api/internal/health"
	"github.com/infutrix/backoffice-api/internal/http/handler"
	"github.com/infutrix/backoffice-api/internal/http/middleware"
	"github.com/infutrix/backoffice-api/internal/http/router"
	"github.com/infutrix/backoffice-api/internal/mail"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/service"
	"github.com/infutrix/backoffice-api/internal/storage"
)

// RedisClient is nil when no component is configured to use Redis.
type RedisClient struct {
	redis.UniversalClient
}

type StopFunc func()

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(database.OptionsFromConfig(cfg))
}

func provideRedisClient(cfg *config.Config) RedisClient {
	needed := cfg.SessionBackend == "redis" || (cfg.RateLimitRedisEnabled && cfg.RedisAddr != "")
	if !needed {
		return RedisClient{}
	}
	return RedisClient{redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})}
}

func provideStop(client RedisClient) StopFunc {
	return func() {
		if client.UniversalClient != nil {
			_ = client.Close()
		}
	}
}

func provideSessionStore(cfg *config.Config, client RedisClient) (service.SessionStore, error) {
	switch cfg.SessionBackend {
	case "memory":
		return service.NewInMemorySessionStore(), nil
	case "redis":
		if client.UniversalClient == nil {
			return nil, fmt.Errorf("session backend redis requires REDIS_ADDR")
		}
		return service.NewRedisSessionStore(client, cfg.SessionKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.AccessKeys, cfg.RefreshKeys)
}

func provideAuthService(users service.UserStore, sessions service.SessionStore, jwt *security.JWTManager, cfg *config.Config) *service.AuthService {
	return service.NewAuthService(users, sessions, jwt, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func provideFieldCipher(cfg *config.Config) (*security.FieldCipher, error) {
	return security.NewFieldCipher(cfg.LeadEncryptionKey)
}

func provideBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "memory" {
		return storage.NewInMemoryStore(cfg.S3PublicBaseURL), nil
	}
	return storage.NewS3Store(storage.S3OptionsFromConfig(cfg))
}

func provideMailDispatcher(cfg *config.Config, logger *slog.Logger) *mail.Dispatcher {
	return mail.NewDispatcher(mail.NewSender(cfg, logger), logger, cfg.MailConcurrency, cfg.MailQueueSize)
}

func provideCookieOptions(cfg *config.Config) security.CookieOptions {
	return security.CookieOptions{Secure: cfg.AppEnv == config.EnvProduction, Domain: cfg.CookieDomain}
}

func provideReadiness(cfg *config.Config, db *gorm.DB, client RedisClient) *health.ProbeRunner {
	checkers := []health.Checker{health.DBChecker(db)}
	if client.UniversalClient != nil {
		checkers = append(checkers, health.RedisChecker(client))
	}
	return health.NewProbeRunner(cfg.ReadinessProbeTimeout, cfg.ReadinessCacheTTL, checkers...)
}

type rateLimiters struct {
	api   router.RateLimiterFunc
	login router.RateLimiterFunc
}

// provideRateLimiters shares counters through Redis when enabled. Without
// Redis the router falls back to per-process limiters.
func provideRateLimiters(cfg *config.Config, client RedisClient) rateLimiters {
	if !cfg.RateLimitRedisEnabled || client.UniversalClient == nil {
		return rateLimiters{}
	}
	mode := middleware.FailClosed
	if cfg.RateLimitFailOpen {
		mode = middleware.FailOpen
	}
	backend := middleware.NewRedisLimiter(client, cfg.RateLimitRedisPrefix)
	return rateLimiters{
		api:   middleware.NewDistributedRateLimiter(backend, "api", cfg.APIRateLimitPerMin, time.Minute, mode, middleware.IdentityOrIPKey).Middleware(),
		login: middleware.NewDistributedRateLimiter(backend, "login", cfg.LoginRateLimitPerMin, time.Minute, mode, middleware.ClientIPKey).Middleware(),
	}
}

type handlers struct {
	auth         *handler.AuthHandler
	user         *handler.UserHandler
	category     *handler.CategoryHandler
	blog         *handler.BlogHandler
	office       *handler.OfficeHandler
	careers      *handler.CareersHandler
	applications *handler.ApplicationHandler
	lead         *handler.LeadHandler
	media        *handler.MediaHandler
}

func provideHandlers(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	category *handler.CategoryHandler,
	blog *handler.BlogHandler,
	office *handler.OfficeHandler,
	careers *handler.CareersHandler,
	applications *handler.ApplicationHandler,
	lead *handler.LeadHandler,
	media *handler.MediaHandler,
) handlers {
	return handlers{auth, user, category, blog, office, careers, applications, lead, media}
}

func provideRouterDependencies(cfg *config.Config, authn *service.AuthService, h handlers, limiters rateLimiters, readiness *health.ProbeRunner) router.Dependencies {
	return router.Dependencies{
		Authenticator:      authn,
		AuthHandler:        h.auth,
		UserHandler:        h.user,
		CategoryHandler:    h.category,
		BlogHandler:        h.blog,
		OfficeHandler:      h.office,
		CareersHandler:     h.careers,
		ApplicationHandler: h.applications,
		LeadHandler:        h.lead,
		MediaHandler:       h.media,
		CORSOrigins:        cfg.CORSOrigins,
		MaxJSONBodyBytes:   cfg.MaxJSONBodyBytes,
		MaxMultipartBytes:  cfg.MaxMultipartBodyBytes,
		APIRateLimitRPM:    cfg.APIRateLimitPerMin,
		LoginRateLimitRPM:  cfg.LoginRateLimitPerMin,
		APIRateLimiter:     limiters.api,
		LoginRateLimiter:   limiters.login,
		Readiness:          readiness,
		EnableOTelHTTP:     cfg.OTELHTTPEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: cfg.HTTPReadHeaderTimeout,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
