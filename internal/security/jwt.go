package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Key identifiers. Each names an independent RSA key pair so that a token
// minted for one purpose never verifies for the other.
const (
	AccessKey  = "access"
	RefreshKey = "refresh"
)

// ErrInvalidToken is the single outcome of every verification failure:
// malformed, expired, wrong key and bad signature are indistinguishable.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TokenType string `json:"token_type"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// TokenPayload is what callers put into a token.
type TokenPayload struct {
	Subject   string
	SessionID string
}

type JWTManager struct {
	issuer string
	keys   map[string]KeyPair
	now    func() time.Time
}

func NewJWTManager(issuer string, access, refresh KeyPair) *JWTManager {
	return &JWTManager{
		issuer: issuer,
		keys: map[string]KeyPair{
			AccessKey:  access,
			RefreshKey: refresh,
		},
		now: time.Now,
	}
}

// WithClock returns a copy of the manager that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

// Sign encodes payload with an expiry of ttl and signs it with the private
// key registered under keyID.
func (m *JWTManager) Sign(payload TokenPayload, keyID string, ttl time.Duration) (string, error) {
	kp, ok := m.keys[keyID]
	if !ok || kp.Private == nil {
		return "", fmt.Errorf("sign token: unknown signing key %q", keyID)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("sign token: ttl must be positive, got %s", ttl)
	}
	now := m.now()
	claims := Claims{
		TokenType: keyID,
		SessionID: payload.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   payload.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(kp.Private)
}

// Verify checks signature and expiry against the public key registered
// under keyID and returns the decoded claims or ErrInvalidToken.
func (m *JWTManager) Verify(raw, keyID string) (*Claims, error) {
	kp, ok := m.keys[keyID]
	if !ok || kp.Public == nil || raw == "" {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return kp.Public, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != keyID || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) SignAccessToken(payload TokenPayload, ttl time.Duration) (string, error) {
	return m.Sign(payload, AccessKey, ttl)
}

func (m *JWTManager) SignRefreshToken(payload TokenPayload, ttl time.Duration) (string, error) {
	return m.Sign(payload, RefreshKey, ttl)
}

func (m *JWTManager) ParseAccessToken(raw string) (*Claims, error) {
	return m.Verify(raw, AccessKey)
}

func (m *JWTManager) ParseRefreshToken(raw string) (*Claims, error) {
	return m.Verify(raw, RefreshKey)
}
