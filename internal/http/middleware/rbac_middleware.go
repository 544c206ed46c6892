package middleware

import (
	"net/http"
	"slices"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/service"
)

var ErrUnauthorizedAccess = apperr.Forbidden("Unauthorized Access")

// RequireRole admits callers whose role is in roles and marks the request
// privileged. It must run after RequireAuth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Fail(w, r, service.ErrNotLoggedIn)
				return
			}
			if !slices.Contains(roles, user.Role) {
				observability.Audit(r, "role_denied", "user_id", user.ID, "role", string(user.Role))
				response.Fail(w, r, ErrUnauthorizedAccess)
				return
			}
			next.ServeHTTP(w, r.WithContext(withAccess(r.Context())))
		})
	}
}

// RequireRoleIfAvailable never blocks. A caller with a matching role is
// marked privileged; everyone else continues unprivileged.
func RequireRoleIfAvailable(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := IdentityFromContext(r.Context()); ok && slices.Contains(roles, user.Role) {
				r = r.WithContext(withAccess(r.Context()))
			}
			next.ServeHTTP(w, r)
		})
	}
}
