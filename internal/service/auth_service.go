package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infutrix/backoffice-api/internal/apperr"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/security"
)

var (
	ErrNotLoggedIn        = apperr.New(apperr.KindUnauthenticated, "You are not logged in")
	ErrInvalidCredentials = apperr.New(apperr.KindInvalidCredentials, "Invalid username or password")
	ErrInvalidToken       = apperr.New(apperr.KindInvalidToken, "Invalid token or user doesn't exist")
	ErrSessionExpired     = apperr.New(apperr.KindSessionExpired, "Invalid token or session has expired")
)

type LoginResult struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         domain.SessionUser `json:"user"`
}

type RefreshResult struct {
	AccessToken string             `json:"access_token"`
	User        domain.SessionUser `json:"-"`
}

type RegisterInput struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Role == "" {
		in.Role = domain.RoleViewer
	}
}

func (in RegisterInput) Validate() error {
	switch {
	case len(in.Username) < 3 || len(in.Username) > 64:
		return apperr.ValidationField("username", "username must be 3-64 characters")
	case strings.Contains(in.Username, "@"):
		// Login accepts a username or an email, so a username must never
		// look like an address.
		return apperr.ValidationField("username", "username must not contain @")
	case in.Email == "":
		return apperr.ValidationField("email", "email is required")
	case len(in.Password) < 8 || len(in.Password) > 72:
		return apperr.ValidationField("password", "password must be 8-72 characters")
	case !in.Role.Valid():
		return apperr.ValidationField("role", "role must be one of admin, editor, viewer")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperr.ValidationField("email", "email is invalid")
	}
	return nil
}

// AuthService issues and checks credentials. One session exists per user:
// a login replaces any earlier session, and tokens carry the session id so
// tokens from a replaced session stop working.
type AuthService struct {
	users        UserStore
	sessions     SessionStore
	jwt          *security.JWTManager
	accessTTL    time.Duration
	refreshTTL   time.Duration
	newSessionID func() string
}

func NewAuthService(users UserStore, sessions SessionStore, jwt *security.JWTManager, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		jwt:          jwt,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		newSessionID: uuid.NewString,
	}
}

func (s *AuthService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		observability.RecordAuthLogin(ctx, "invalid_request")
		return nil, apperr.Validation("username and password are required")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	switch {
	case err == nil:
		if !security.CheckPassword(user.PasswordHash, password) {
			observability.RecordAuthLogin(ctx, "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
	case apperr.IsKind(err, apperr.KindNotFound):
		security.BurnPasswordCheck(password)
		observability.RecordAuthLogin(ctx, "invalid_credentials")
		return nil, ErrInvalidCredentials
	default:
		observability.RecordAuthLogin(ctx, "error")
		return nil, fmt.Errorf("find user: %w", err)
	}

	record := domain.NewSessionUser(user, s.newSessionID())
	payload := security.TokenPayload{Subject: user.ID, SessionID: record.SessionID}
	access, err := s.jwt.SignAccessToken(payload, s.accessTTL)
	if err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, apperr.Internal(fmt.Errorf("sign access token: %w", err))
	}
	refresh, err := s.jwt.SignRefreshToken(payload, s.refreshTTL)
	if err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, apperr.Internal(fmt.Errorf("sign refresh token: %w", err))
	}
	if err := s.sessions.Set(ctx, user.ID, record, s.accessTTL); err != nil {
		observability.RecordAuthLogin(ctx, "error")
		return nil, apperr.Internal(fmt.Errorf("store session: %w", err))
	}
	observability.RecordAuthLogin(ctx, "success")
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: record}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		observability.RecordAuthLogout(ctx, "error")
		return apperr.Internal(fmt.Errorf("delete session: %w", err))
	}
	observability.RecordAuthLogout(ctx, "success")
	return nil
}

// Refresh mints a new access token for a live session and extends the
// session by one access TTL. It cannot revive an expired session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		observability.RecordAuthRefresh(ctx, "missing")
		return nil, ErrNotLoggedIn
	}
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		observability.RecordAuthRefresh(ctx, "invalid_token")
		return nil, ErrInvalidToken
	}
	record, err := s.liveSession(ctx, claims)
	if err != nil {
		observability.RecordAuthRefresh(ctx, refreshOutcome(err))
		return nil, err
	}
	access, err := s.jwt.SignAccessToken(security.TokenPayload{Subject: record.ID, SessionID: record.SessionID}, s.accessTTL)
	if err != nil {
		observability.RecordAuthRefresh(ctx, "error")
		return nil, apperr.Internal(fmt.Errorf("sign access token: %w", err))
	}
	// A logout or a newer login may land between the read above and this
	// write; Extend refuses both instead of resurrecting the old session.
	if err := s.sessions.Extend(ctx, record.ID, record.SessionID, s.accessTTL); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			observability.RecordAuthRefresh(ctx, "session_expired")
			return nil, ErrSessionExpired
		}
		observability.RecordAuthRefresh(ctx, "error")
		return nil, apperr.Internal(fmt.Errorf("extend session: %w", err))
	}
	observability.RecordAuthRefresh(ctx, "success")
	return &RefreshResult{AccessToken: access, User: *record}, nil
}

// Authenticate resolves an access token to its live session record.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.SessionUser, error) {
	if accessToken == "" {
		return nil, ErrNotLoggedIn
	}
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.liveSession(ctx, claims)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) liveSession(ctx context.Context, claims *security.Claims) (*domain.SessionUser, error) {
	record, err := s.sessions.Get(ctx, claims.Subject)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load session: %w", err))
	}
	if record.SessionID != claims.SessionID {
		return nil, ErrSessionExpired
	}
	return record, nil
}

func refreshOutcome(err error) string {
	if errors.Is(err, ErrSessionExpired) {
		return "session_expired"
	}
	return "error"
}
