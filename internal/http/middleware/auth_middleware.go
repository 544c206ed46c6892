package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/service"
)

// Authenticator resolves an access token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.SessionUser, error)
}

// RequireAuth rejects requests without a valid token bound to a live session.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, auth)
			if err != nil {
				response.Fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *user)))
		})
	}
}

// OptionalAuth attaches the identity when one resolves and otherwise lets
// the request through anonymously. Session store faults still fail the
// request.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, auth)
			if err != nil {
				if !isAuthFailure(err) {
					response.Fail(w, r, err)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *user)))
		})
	}
}

func authenticate(r *http.Request, auth Authenticator) (*domain.SessionUser, error) {
	raw, source := AccessToken(r)
	if raw == "" {
		observability.RecordAccessTokenValidation(r.Context(), "missing", "none")
		return nil, service.ErrNotLoggedIn
	}
	user, err := auth.Authenticate(r.Context(), raw)
	if err != nil {
		observability.RecordAccessTokenValidation(r.Context(), validationOutcome(err), source)
		return nil, err
	}
	observability.RecordAccessTokenValidation(r.Context(), "valid", source)
	return user, nil
}

// AccessToken extracts the access token, preferring the Authorization header
// over the cookie.
func AccessToken(r *http.Request) (token, source string) {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		if t := strings.TrimSpace(h[7:]); t != "" {
			return t, "bearer"
		}
	}
	if t := security.GetCookie(r, security.AccessTokenCookie); t != "" {
		return t, "cookie"
	}
	return "", "none"
}

func validationOutcome(err error) string {
	switch {
	case apperr.IsKind(err, apperr.KindInvalidToken):
		return "invalid"
	case apperr.IsKind(err, apperr.KindSessionExpired):
		return "session_expired"
	case apperr.IsKind(err, apperr.KindUnauthenticated):
		return "missing"
	default:
		return "error"
	}
}

func isAuthFailure(err error) bool {
	return validationOutcome(err) != "error"
}
