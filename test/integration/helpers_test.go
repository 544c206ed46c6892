package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/infutrix/backoffice-api/internal/config"
	"github.com/infutrix/backoffice-api/internal/database"
	"github.com/infutrix/backoffice-api/internal/di"
	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/observability"
	"github.com/infutrix/backoffice-api/internal/repository"
	"github.com/infutrix/backoffice-api/internal/security"
)

const adminPassword = "correct-horse-battery"

var (
	keysOnce    sync.Once
	accessKeys  security.KeyPair
	refreshKeys security.KeyPair
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stack struct {
	baseURL string
	client  *http.Client
	redis   *miniredis.Miniredis
	admin   *domain.User
}

// newStack boots the fully wired application against a migrated sqlite file
// and a miniredis instance that backs sessions and rate limits.
func newStack(t *testing.T, tweak func(*config.Config)) *stack {
	t.Helper()
	keysOnce.Do(func() {
		var err error
		if accessKeys, err = security.GenerateKeyPair(2048); err != nil {
			panic(err)
		}
		if refreshKeys, err = security.GenerateKeyPair(2048); err != nil {
			panic(err)
		}
	})

	mr := miniredis.RunT(t)
	dsn := filepath.Join(t.TempDir(), "backoffice.db") + "?_foreign_keys=on"
	cfg := &config.Config{
		AppEnv:                       config.EnvTest,
		Port:                         0,
		LogLevel:                     "error",
		MaxJSONBodyBytes:             1 << 20,
		MaxMultipartBodyBytes:        11 << 20,
		DBDriver:                     "sqlite",
		DatabaseURL:                  dsn,
		DBMaxOpenConns:               4,
		DBMaxIdleConns:               2,
		SessionBackend:               "redis",
		SessionKeyPrefix:             "session",
		RedisAddr:                    mr.Addr(),
		JWTIssuer:                    "backoffice-itest",
		AccessKeys:                   accessKeys,
		RefreshKeys:                  refreshKeys,
		AccessTokenTTL:               15 * time.Minute,
		RefreshTokenTTL:              time.Hour,
		LoginRateLimitPerMin:         100,
		APIRateLimitPerMin:           1000,
		RateLimitRedisEnabled:        true,
		RateLimitRedisPrefix:         "rl",
		LeadEncryptionKey:            bytes.Repeat([]byte{3}, 32),
		StorageBackend:               "memory",
		S3PublicBaseURL:              "https://cdn.example.com",
		MailBackend:                  "log",
		MailConcurrency:              2,
		MailQueueSize:                16,
		ReadinessProbeTimeout:        time.Second,
		ShutdownTimeout:              5 * time.Second,
		ShutdownHTTPDrainTimeout:     time.Second,
		ShutdownObservabilityTimeout: time.Second,
	}
	if tweak != nil {
		tweak(cfg)
	}

	admin := seedAdmin(t, cfg)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	a, err := di.InitializeApp(cfg, logger, &observability.Runtime{Logger: logger})
	if err != nil {
		t.Fatalf("initialize app: %v", err)
	}
	srv := httptest.NewServer(a.Server.Handler)
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return &stack{baseURL: srv.URL, client: srv.Client(), redis: mr, admin: admin}
}

func seedAdmin(t *testing.T, cfg *config.Config) *domain.User {
	t.Helper()
	db, err := database.Open(database.OptionsFromConfig(cfg))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hash, err := security.HashPassword(adminPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, PasswordHash: hash}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

func (s *stack) doJSON(t *testing.T, method, path string, body any, token string) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp, env
}

func (s *stack) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, env := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": username, "password": password}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status=%d message=%q", username, resp.StatusCode, env.Message)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("decode login data: %v (%s)", err, env.Data)
	}
	return data.AccessToken
}
