package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/infutrix/backoffice-api/internal/config"
)

func TestHealthEndpointsReportRedisAndDatabase(t *testing.T) {
	s := newStack(t, nil)

	resp, env := s.doJSON(t, http.MethodGet, "/health/live", nil, "")
	if resp.StatusCode != http.StatusOK || env.Status != "SUCCESS" {
		t.Fatalf("live: status=%d body=%+v", resp.StatusCode, env)
	}

	resp, env = s.doJSON(t, http.MethodGet, "/health/ready", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready: status=%d message=%q", resp.StatusCode, env.Message)
	}
	var data struct {
		Checks []struct {
			Name    string `json:"name"`
			Healthy bool   `json:"healthy"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode ready data: %v", err)
	}
	if len(data.Checks) != 2 {
		t.Fatalf("expected database and redis checks, got %+v", data.Checks)
	}
	for _, c := range data.Checks {
		if !c.Healthy {
			t.Fatalf("expected %s check to be healthy", c.Name)
		}
	}

	s.redis.Close()
	resp, _ = s.doJSON(t, http.MethodGet, "/health/ready", nil, "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 once redis is down, got %d", resp.StatusCode)
	}
}

func TestRedisSessionLifecycle(t *testing.T) {
	s := newStack(t, nil)

	first := s.login(t, "admin", adminPassword)
	key := "session:" + s.admin.ID
	if !s.redis.Exists(key) {
		t.Fatalf("expected session key %q in redis", key)
	}
	if ttl := s.redis.TTL(key); ttl != 15*time.Minute {
		t.Fatalf("expected session ttl to match access ttl, got %s", ttl)
	}

	resp, env := s.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, first)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status=%d message=%q", resp.StatusCode, env.Message)
	}

	second := s.login(t, "admin", adminPassword)
	if resp, _ := s.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, first); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected replaced session token to be rejected, got %d", resp.StatusCode)
	}
	if resp, _ := s.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, second); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected current session token to work, got %d", resp.StatusCode)
	}

	s.redis.FastForward(16 * time.Minute)
	if resp, _ := s.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, second); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected expired session to be rejected, got %d", resp.StatusCode)
	}
}

func TestRedisLogoutDeletesSession(t *testing.T) {
	s := newStack(t, nil)
	token := s.login(t, "admin", adminPassword)

	resp, env := s.doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status=%d message=%q", resp.StatusCode, env.Message)
	}
	if s.redis.Exists("session:" + s.admin.ID) {
		t.Fatal("expected session key to be removed on logout")
	}
	if resp, _ := s.doJSON(t, http.MethodGet, "/api/v1/users/me", nil, token); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected logged out token to be rejected, got %d", resp.StatusCode)
	}
}

func TestRedisLoginRateLimiterConcurrentBurstHonorsLimit(t *testing.T) {
	const limit = 5
	s := newStack(t, func(c *config.Config) { c.LoginRateLimitPerMin = limit })

	const attempts = 20
	var limited, passed atomic.Int64
	errCh := make(chan error, attempts)
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := strings.NewReader(`{"username":"admin","password":"wrong-password"}`)
			resp, err := s.client.Post(s.baseURL+"/api/v1/auth/login", "application/json", body)
			if err != nil {
				errCh <- err
				return
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				limited.Add(1)
				return
			}
			passed.Add(1)
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("login attempt failed: %v", err)
	}

	if got := passed.Load(); got != limit {
		t.Fatalf("expected exactly %d requests through the limiter, got %d (limited=%d)", limit, got, limited.Load())
	}
	counter, err := s.redis.Get("rl:login:127.0.0.1")
	if err != nil {
		t.Fatalf("expected shared counter in redis: %v", err)
	}
	if counter != "20" {
		t.Fatalf("expected counter to record every attempt, got %s", counter)
	}
}

func TestRedisLimiterFailsClosedWhenRedisIsDown(t *testing.T) {
	s := newStack(t, nil)
	s.redis.Close()

	resp, _ := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": adminPassword}, "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected fail-closed limiter to reject, got %d", resp.StatusCode)
	}
}
