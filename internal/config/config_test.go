package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/infutrix/backoffice-api/internal/security"
)

var (
	keyEnvOnce sync.Once
	keyEnv     map[string]string
)

func setValidEnv(t *testing.T) {
	t.Helper()
	keyEnvOnce.Do(func() {
		keyEnv = map[string]string{}
		for _, prefix := range []string{"JWT_ACCESS", "JWT_REFRESH"} {
			kp, err := security.GenerateKeyPair(2048)
			if err != nil {
				panic(err)
			}
			priv, pub, err := security.EncodeKeyPair(kp)
			if err != nil {
				panic(err)
			}
			keyEnv[prefix+"_PRIVATE_KEY"] = priv
			keyEnv[prefix+"_PUBLIC_KEY"] = pub
		}
	})
	for k, v := range keyEnv {
		t.Setenv(k, v)
	}
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("S3_BUCKET", "backoffice")
	t.Setenv("LEAD_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32)))
}

func TestLoadAppliesDefaultsAndDerivesKeys(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "redis", cfg.SessionBackend)
	require.Equal(t, "development", cfg.OTELEnvironment)
	require.Equal(t, ":8080", cfg.Addr())
	require.NotNil(t, cfg.AccessKeys.Private)
	require.NotNil(t, cfg.RefreshKeys.Public)
	require.Len(t, cfg.LeadEncryptionKey, 32)
	require.False(t, cfg.CookieOptions().Secure)
	require.Equal(t, 256, cfg.MailQueueSize)
}

func TestLoadParsesOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MAIL_CONCURRENCY", "8")
	t.Setenv("MAIL_QUEUE_SIZE", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 8, cfg.MailQueueSize, "queue never smaller than the worker count")
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.True(t, cfg.CookieOptions().Secure)
}

func TestLoadFailsOnMissingRequired(t *testing.T) {
	setValidEnv(t)
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config:")
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadFailsValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"redis addr required":  {"REDIS_ADDR": ""},
		"bad app env":          {"APP_ENV": "moon"},
		"bad lead key":         {"LEAD_ENCRYPTION_KEY": "c2hvcnQ="},
		"malformed access key": {"JWT_ACCESS_PUBLIC_KEY": "bm90LWEta2V5"},
		"memory in production": {"APP_ENV": "production", "SESSION_BACKEND": "memory"},
		"refresh shorter":      {"ACCESS_TOKEN_TTL": "2h", "REFRESH_TOKEN_TTL": "1h"},
		"smtp without host":    {"MAIL_BACKEND": "smtp"},
		"s3 without bucket":    {"S3_BUCKET": ""},
		"unknown storage":      {"STORAGE_BACKEND": "ftp"},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			setValidEnv(t)
			for k, v := range overrides {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), "validate config:")
		})
	}
}

func TestValidateRejectsSharedKeyPair(t *testing.T) {
	setValidEnv(t)
	t.Setenv("JWT_REFRESH_PRIVATE_KEY", keyEnv["JWT_ACCESS_PRIVATE_KEY"])
	t.Setenv("JWT_REFRESH_PUBLIC_KEY", keyEnv["JWT_ACCESS_PUBLIC_KEY"])

	_, err := Load()
	require.ErrorContains(t, err, "must differ")
}
