package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/service"
)

type fakeAuthenticator struct {
	users map[string]domain.SessionUser
	err   error
	seen  string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*domain.SessionUser, error) {
	f.seen = token
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return &u, nil
}

func newFakeAuth() *fakeAuthenticator {
	return &fakeAuthenticator{users: map[string]domain.SessionUser{
		"admin-token":  {ID: "u-1", Username: "root", Role: domain.RoleAdmin},
		"viewer-token": {ID: "u-2", Username: "guest", Role: domain.RoleViewer},
	}}
}

func identityEcho(t *testing.T, want string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := IdentityFromContext(r.Context())
		if want == "" {
			if ok {
				t.Fatalf("expected anonymous request, got %+v", u)
			}
		} else if !ok || u.ID != want {
			t.Fatalf("expected identity %q, got %+v (ok=%v)", want, u, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuthMissingTokenReturnsUnauthorized(t *testing.T) {
	h := RequireAuth(newFakeAuth())(identityEcho(t, "never"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", rr.Code)
	}
}

func TestRequireAuthAcceptsBearerAndCookie(t *testing.T) {
	auth := newFakeAuth()
	h := RequireAuth(auth)(identityEcho(t, "u-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for bearer token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "admin-token"})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for cookie token, got %d", rr.Code)
	}
}

func TestAccessTokenPrefersBearerOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer from-header")
	req.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "from-cookie"})
	if tok, src := AccessToken(req); tok != "from-header" || src != "bearer" {
		t.Fatalf("expected bearer token, got %q from %q", tok, src)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: security.AccessTokenCookie, Value: "from-cookie"})
	if tok, src := AccessToken(req); tok != "from-cookie" || src != "cookie" {
		t.Fatalf("expected cookie fallback, got %q from %q", tok, src)
	}
}

func TestRequireAuthMapsFailures(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"invalid token":   {service.ErrInvalidToken, http.StatusUnauthorized},
		"session expired": {service.ErrSessionExpired, http.StatusUnauthorized},
		"store fault":     {apperr.Internal(errors.New("redis down")), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := RequireAuth(&fakeAuthenticator{err: tc.err})(identityEcho(t, "never"))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer x")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	h := OptionalAuth(newFakeAuth())(identityEcho(t, ""))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected anonymous pass-through, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	req.Header.Set("Authorization", "Bearer unknown")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected invalid token to be treated as anonymous, got %d", rr.Code)
	}
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	h := OptionalAuth(newFakeAuth())(identityEcho(t, "u-2"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	req.Header.Set("Authorization", "Bearer viewer-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestOptionalAuthSurfacesStoreFaults(t *testing.T) {
	h := OptionalAuth(&fakeAuthenticator{err: apperr.Internal(errors.New("redis down"))})(identityEcho(t, "never"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	req.Header.Set("Authorization", "Bearer x")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected store fault to fail the request, got %d", rr.Code)
	}
}
