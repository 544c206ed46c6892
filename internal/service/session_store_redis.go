package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/infutrix/backoffice-api/internal/domain"
	"github.com/infutrix/backoffice-api/internal/observability"
)

// RedisSessionStore keeps one JSON record per user under <prefix>:<key>,
// written with a single SET ... EX.
//
// Extend runs as a script so the session id check and the expiry reset
// happen atomically against a concurrent logout or login.
type RedisSessionStore struct {
	client redis.UniversalClient
	prefix string
}

var extendSessionScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return 0
end
local ok, rec = pcall(cjson.decode, raw)
if not ok or type(rec) ~= "table" or rec["sid"] ~= ARGV[1] then
	return 0
end
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`)

func NewRedisSessionStore(client redis.UniversalClient, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) Set(ctx context.Context, key string, record domain.SessionUser, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	start := time.Now()
	err = s.client.Set(ctx, s.key(key), payload, ttl).Err()
	observability.RecordSessionStoreDuration(ctx, "set", msSince(start))
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (*domain.SessionUser, error) {
	start := time.Now()
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	observability.RecordSessionStoreDuration(ctx, "get", msSince(start))
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var rec domain.SessionUser
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (s *RedisSessionStore) Extend(ctx context.Context, key, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	start := time.Now()
	n, err := extendSessionScript.Run(ctx, s.client, []string{s.key(key)}, sessionID, ttl.Milliseconds()).Int()
	observability.RecordSessionStoreDuration(ctx, "extend", msSince(start))
	if err != nil {
		return fmt.Errorf("redis extend session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Del(ctx, s.key(key)).Err()
	observability.RecordSessionStoreDuration(ctx, "delete", msSince(start))
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping is used by the readiness probe.
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSessionStore) key(k string) string {
	return s.prefix + ":" + k
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
