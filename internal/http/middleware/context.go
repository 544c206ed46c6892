package middleware

import (
	"context"

	"github.com/infutrix/backoffice-api/internal/domain"
)

type contextKey string

const (
	identityContextKey   contextKey = "identity"
	privilegedContextKey contextKey = "privileged"
)

// WithIdentity attaches a copy of the session record to ctx.
func WithIdentity(ctx context.Context, user domain.SessionUser) context.Context {
	return context.WithValue(ctx, identityContextKey, user)
}

// IdentityFromContext returns the authenticated caller, if any. The value is
// a copy; handlers cannot mutate what the gate attached.
func IdentityFromContext(ctx context.Context) (domain.SessionUser, bool) {
	u, ok := ctx.Value(identityContextKey).(domain.SessionUser)
	return u, ok
}

func withAccess(ctx context.Context) context.Context {
	return context.WithValue(ctx, privilegedContextKey, true)
}

// HasAccess reports whether a role gate marked the request privileged.
func HasAccess(ctx context.Context) bool {
	v, _ := ctx.Value(privilegedContextKey).(bool)
	return v
}
