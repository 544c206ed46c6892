package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/health"
	"github.com/infutrix/backoffice-api/internal/http/handler"
	"github.com/infutrix/backoffice-api/internal/http/middleware"
	"github.com/infutrix/backoffice-api/internal/http/response"
)

type Dependencies struct {
	Authenticator      middleware.Authenticator
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	CategoryHandler    *handler.CategoryHandler
	BlogHandler        *handler.BlogHandler
	OfficeHandler      *handler.OfficeHandler
	CareersHandler     *handler.CareersHandler
	ApplicationHandler *handler.ApplicationHandler
	LeadHandler        *handler.LeadHandler
	MediaHandler       *handler.MediaHandler
	CORSOrigins        []string
	MaxJSONBodyBytes   int64
	MaxMultipartBytes  int64
	APIRateLimitRPM    int
	LoginRateLimitRPM  int
	// APIRateLimiter and LoginRateLimiter override the in-process limiters,
	// typically with Redis-backed ones shared across replicas.
	APIRateLimiter   RateLimiterFunc
	LoginRateLimiter RateLimiterFunc
	Readiness        *health.ProbeRunner
	EnableOTelHTTP   bool
}

type RateLimiterFunc func(http.Handler) http.Handler

var staff = []domain.Role{domain.RoleAdmin, domain.RoleEditor}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(orDefault(dep.MaxJSONBodyBytes, 1<<20), orDefault(dep.MaxMultipartBytes, 11<<20)))

	apiLimiter := dep.APIRateLimiter
	if apiLimiter == nil {
		apiLimiter = middleware.NewDistributedRateLimiter(middleware.NewLocalLimiter(), "api", dep.APIRateLimitRPM, time.Minute, middleware.FailClosed, middleware.IdentityOrIPKey).Middleware()
	}
	loginLimiter := dep.LoginRateLimiter
	if loginLimiter == nil {
		loginLimiter = middleware.NewRateLimiter("login", dep.LoginRateLimitRPM, time.Minute).Middleware()
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "Can't find "+r.URL.Path+" on this server")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, r, "ok", nil)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.OK(w, r, "ready", map[string]any{"checks": []health.CheckResult{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.OK(w, r, "ready", map[string]any{"checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, "Dependencies are not ready", map[string]any{"checks": results})
	})

	requireAuth := middleware.RequireAuth(dep.Authenticator)
	optionalAuth := middleware.OptionalAuth(dep.Authenticator)
	staffOnly := middleware.RequireRole(staff...)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication runs before the API limiter so signed-in callers
		// are limited per user rather than per address.
		r.Route("/auth", func(r chi.Router) {
			r.Use(apiLimiter)
			r.With(loginLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(loginLimiter).Post("/refresh", dep.AuthHandler.Refresh)
			r.With(requireAuth).Post("/logout", dep.AuthHandler.Logout)
			r.With(requireAuth, middleware.RequireRole(domain.RoleAdmin)).Post("/register", dep.AuthHandler.Register)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth, apiLimiter)
			r.Get("/me", dep.UserHandler.Me)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Get("/", dep.UserHandler.List)
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(apiLimiter).Get("/", dep.CategoryHandler.List)
			r.With(apiLimiter).Get("/{id}", dep.CategoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, apiLimiter, staffOnly)
				r.Post("/", dep.CategoryHandler.Create)
				r.Patch("/{id}", dep.CategoryHandler.Update)
				r.Delete("/{id}", dep.CategoryHandler.Delete)
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth, apiLimiter, middleware.RequireRoleIfAvailable(staff...))
				r.Get("/", dep.BlogHandler.List)
				r.Get("/{idOrSlug}", dep.BlogHandler.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, apiLimiter, staffOnly)
				r.Post("/", dep.BlogHandler.Create)
				r.Patch("/{id}", dep.BlogHandler.Update)
				r.Delete("/{id}", dep.BlogHandler.Delete)
			})
		})

		r.Route("/office", func(r chi.Router) {
			r.With(apiLimiter).Get("/", dep.OfficeHandler.List)
			r.With(apiLimiter).Get("/{id}", dep.OfficeHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, apiLimiter, staffOnly)
				r.Post("/", dep.OfficeHandler.Create)
				r.Patch("/{id}", dep.OfficeHandler.Update)
				r.Delete("/{id}", dep.OfficeHandler.Delete)
			})
		})

		r.Route("/careers", func(r chi.Router) {
			r.With(apiLimiter).Post("/apply", dep.CareersHandler.Apply)
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth, apiLimiter, middleware.RequireRoleIfAvailable(staff...))
				r.Get("/", dep.CareersHandler.List)
				r.Get("/{id}", dep.CareersHandler.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, apiLimiter, staffOnly)
				r.Post("/", dep.CareersHandler.Create)
				r.Patch("/{id}", dep.CareersHandler.Update)
				r.Delete("/{id}", dep.CareersHandler.Delete)
			})
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(requireAuth, apiLimiter, staffOnly)
			r.Get("/", dep.ApplicationHandler.List)
			r.Get("/{id}", dep.ApplicationHandler.Get)
			r.Patch("/{id}", dep.ApplicationHandler.Update)
			r.Delete("/{id}", dep.ApplicationHandler.Delete)
		})

		r.Route("/lead", func(r chi.Router) {
			r.With(apiLimiter).Post("/", dep.LeadHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, apiLimiter, staffOnly)
				r.Get("/", dep.LeadHandler.List)
				r.Get("/{id}", dep.LeadHandler.Get)
				r.Patch("/{id}", dep.LeadHandler.Update)
			})
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(requireAuth, apiLimiter, staffOnly)
			r.Post("/", dep.MediaHandler.Upload)
			r.Get("/", dep.MediaHandler.List)
			r.Get("/{id}", dep.MediaHandler.Get)
			r.Delete("/{id}", dep.MediaHandler.Delete)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}

func orDefault(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
