package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSecurityHeadersAreSet(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(noContent()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy", "Content-Security-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Fatalf("expected %s header", h)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS must not be sent over plain http")
	}
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	h := CORS([]string{"https://admin.infutrix.test"})(noContent())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/blog", nil)
	req.Header.Set("Origin", "https://admin.infutrix.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://admin.infutrix.test" || rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("unexpected cors headers: %v", rr.Header())
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	h := CORS([]string{"https://admin.infutrix.test"})(noContent())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog", nil)
	req.Header.Set("Origin", "https://evil.test")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/blog", nil)
	req.Header.Set("Origin", "https://evil.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 preflight for unknown origin, got %d", rr.Code)
	}
}

func TestBodyLimitPerContentType(t *testing.T) {
	var readErr error
	h := BodyLimit(4, 16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr == nil {
		t.Fatal("expected json body over limit to fail")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr != nil {
		t.Fatalf("expected multipart body within limit, got %v", readErr)
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-123")
	RequestID(noContent()).ServeHTTP(rr, req)
	if got := rr.Header().Get(chimiddleware.RequestIDHeader); got != "req-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}
