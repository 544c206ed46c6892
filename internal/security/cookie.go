package security

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	LoggedInCookie     = "logged_in"
)

// CookieOptions controls attributes shared by every auth cookie.
type CookieOptions struct {
	Secure bool
	Domain string
}

func GetCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetAuthCookies writes the access, refresh and logged_in cookies. Max-age
// of each token cookie equals the token's TTL.
func SetAuthCookies(w http.ResponseWriter, opts CookieOptions, access, refresh string, accessTTL, refreshTTL time.Duration) {
	SetAccessCookie(w, opts, access, accessTTL)
	http.SetCookie(w, newCookie(opts, RefreshTokenCookie, refresh, refreshTTL, true))
	http.SetCookie(w, newCookie(opts, LoggedInCookie, "true", accessTTL, false))
}

func SetAccessCookie(w http.ResponseWriter, opts CookieOptions, access string, accessTTL time.Duration) {
	http.SetCookie(w, newCookie(opts, AccessTokenCookie, access, accessTTL, true))
}

// ClearAuthCookies expires every auth cookie.
func ClearAuthCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, LoggedInCookie} {
		c := newCookie(opts, name, "", 0, name != LoggedInCookie)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func newCookie(opts CookieOptions, name, value string, ttl time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: httpOnly,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
