package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/infutrix/backoffice-api/internal/domain"
)

func TestInMemorySessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemorySessionStore().WithClock(func() time.Time { return now })

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found on empty store, got %v", err)
	}
	if err := store.Set(ctx, "u1", domain.SessionUser{ID: "u1", SessionID: "a"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "u1", domain.SessionUser{ID: "u1", SessionID: "b"}, time.Minute); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SessionID != "b" {
		t.Fatalf("expected overwrite to win, got %q", got.SessionID)
	}

	now = now.Add(time.Minute)
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expiry at ttl, got %v", err)
	}

	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete of missing key should succeed: %v", err)
	}
	if err := store.Set(ctx, "u1", domain.SessionUser{ID: "u1"}, 0); err == nil {
		t.Fatal("expected non-positive ttl to be rejected")
	}
}

func TestInMemorySessionStoreExtendChecksSessionID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewInMemorySessionStore().WithClock(func() time.Time { return now })

	if err := store.Extend(ctx, "u1", "a", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("extend must not create a missing session, got %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("failed extend left a record behind: %v", err)
	}

	if err := store.Set(ctx, "u1", domain.SessionUser{ID: "u1", SessionID: "a"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Extend(ctx, "u1", "stale", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected mismatched session id to be refused, got %v", err)
	}

	now = now.Add(50 * time.Second)
	if err := store.Extend(ctx, "u1", "a", time.Minute); err != nil {
		t.Fatalf("extend: %v", err)
	}
	now = now.Add(50 * time.Second)
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("expected extended session to outlive its first ttl: %v", err)
	}
	if got.SessionID != "a" {
		t.Fatalf("extend changed the record: %+v", got)
	}

	now = now.Add(time.Minute)
	if err := store.Extend(ctx, "u1", "a", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to stay expired, got %v", err)
	}
	if err := store.Extend(ctx, "u1", "a", 0); err == nil {
		t.Fatal("expected non-positive ttl to be rejected")
	}
}

func TestRedisSessionStoreExtendChecksSessionID(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	store := NewRedisSessionStore(client, "")

	if err := store.Extend(ctx, "u1", "sid-1", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("extend must not create a missing session, got %v", err)
	}
	if server.Exists("session:u1") {
		t.Fatal("failed extend wrote a key")
	}

	rec := domain.SessionUser{ID: "u1", SessionID: "sid-1", Username: "alice", Role: domain.RoleEditor}
	if err := store.Set(ctx, "u1", rec, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	server.FastForward(40 * time.Second)

	if err := store.Extend(ctx, "u1", "sid-0", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected mismatched session id to be refused, got %v", err)
	}
	if ttl := server.TTL("session:u1"); ttl != 20*time.Second {
		t.Fatalf("refused extend must leave the ttl alone, got %v", ttl)
	}

	if err := store.Extend(ctx, "u1", "sid-1", time.Minute); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if ttl := server.TTL("session:u1"); ttl != time.Minute {
		t.Fatalf("expected ttl to be reset to one minute, got %v", ttl)
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != rec {
		t.Fatalf("extend changed the record: %+v", got)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Extend(ctx, "u1", "sid-1", time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("extend must not resurrect a deleted session, got %v", err)
	}
	if server.Exists("session:u1") {
		t.Fatal("deleted session came back")
	}

	server.SetError("LOADING redis is loading")
	if err := store.Extend(ctx, "u1", "sid-1", time.Minute); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected backend error when redis is down, got %v", err)
	}
}

func TestRedisSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	store := NewRedisSessionStore(client, "session_test")

	rec := domain.SessionUser{ID: "u1", SessionID: "sid-1", Username: "alice", Role: domain.RoleEditor}
	if err := store.Set(ctx, "u1", rec, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !server.Exists("session_test:u1") {
		t.Fatal("expected key to be namespaced by prefix")
	}
	if ttl := server.TTL("session_test:u1"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != rec {
		t.Fatalf("unexpected record: %+v", got)
	}

	server.FastForward(61 * time.Second)
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found after ttl, got %v", err)
	}

	if err := store.Set(ctx, "u1", rec, time.Minute); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("second delete should be idempotent: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRedisSessionStoreSurfacesBackendErrors(t *testing.T) {
	ctx := context.Background()
	server, client := newRedisClientForTest(t)
	store := NewRedisSessionStore(client, "")

	if err := client.Set(ctx, "session:u1", "not-json", time.Minute).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}

	server.SetError("LOADING redis is loading")
	if _, err := store.Get(ctx, "u1"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected backend error when redis is down, got %v", err)
	}
	if err := store.Set(ctx, "u1", domain.SessionUser{ID: "u1"}, time.Minute); err == nil {
		t.Fatal("expected set error when redis is down")
	}
}
