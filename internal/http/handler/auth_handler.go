package handler

import (
	"net/http"
	"strings"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/http/response"
	"github.com/infutrix/backoffice-api/internal/http/validation"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/security"
	"github.com/infutrix/backoffice-api/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies security.CookieOptions
}

func NewAuthHandler(auth *service.AuthService, cookies security.CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

type loginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (in loginRequest) identifier() string {
	for _, v := range []string{in.Identifier, in.Username, in.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	var c validation.Checker
	if err := c.Required("identifier", in.identifier()).Required("password", in.Password).Err(); err != nil {
		response.Fail(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), in.identifier(), in.Password)
	if err != nil {
		observability.Audit(r, "login_failed", "reason", string(apperr.As(err).Kind))
		response.Fail(w, r, err)
		return
	}
	observability.Audit(r, "login", "user_id", res.User.ID)
	security.SetAuthCookies(w, h.cookies, res.AccessToken, res.RefreshToken, h.auth.AccessTTL(), h.auth.RefreshTTL())
	response.OK(w, r, "Logged in successfully", res)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh reads the refresh token from its cookie, falling back to the body.
// A request with neither is reported as not logged in.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := security.GetCookie(r, security.RefreshTokenCookie)
	if token == "" {
		var in refreshRequest
		if err := validation.DecodeOptionalJSON(r, &in); err != nil {
			response.Fail(w, r, err)
			return
		}
		token = strings.TrimSpace(in.RefreshToken)
	}

	res, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		observability.Audit(r, "refresh_failed", "reason", string(apperr.As(err).Kind))
		response.Fail(w, r, err)
		return
	}
	observability.Audit(r, "refresh", "user_id", res.User.ID)
	security.SetAccessCookie(w, h.cookies, res.AccessToken, h.auth.AccessTTL())
	response.OK(w, r, "Token refreshed", res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := caller(r)
	if err := h.auth.Logout(r.Context(), user.ID); err != nil {
		response.Fail(w, r, err)
		return
	}
	observability.Audit(r, "logout", "user_id", user.ID)
	security.ClearAuthCookies(w, h.cookies)
	response.OK(w, r, "Logged out successfully", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := validation.DecodeJSON(r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}
	u, err := h.auth.Register(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	observability.Audit(r, "user_registered", "user_id", u.ID, "by", caller(r).ID, "role", string(u.Role))
	response.Created(w, r, "Created Successfully", u)
}
