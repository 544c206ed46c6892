package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/infutrix/backoffice-api/internal/security"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is populated from the process environment (and an optional .env
// file). Fields tagged env:"-" are derived during validation.
type Config struct {
	AppEnv   string `env:"APP_ENV,required"`
	Port     int    `env:"PORT,required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	MaxJSONBodyBytes      int64         `env:"MAX_JSON_BODY_BYTES" envDefault:"1048576"`
	MaxMultipartBodyBytes int64         `env:"MAX_MULTIPART_BODY_BYTES" envDefault:"11534336"`
	CORSOrigins           []string      `env:"CORS_ORIGINS" envSeparator:","`
	CookieDomain          string        `env:"COOKIE_DOMAIN"`

	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	SessionBackend   string `env:"SESSION_BACKEND" envDefault:"redis"`
	SessionKeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session"`
	RedisAddr        string `env:"REDIS_ADDR"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`

	JWTIssuer              string        `env:"JWT_ISSUER" envDefault:"backoffice-api"`
	JWTAccessPrivateKey    string        `env:"JWT_ACCESS_PRIVATE_KEY,required"`
	JWTAccessPublicKey     string        `env:"JWT_ACCESS_PUBLIC_KEY,required"`
	JWTRefreshPrivateKey   string        `env:"JWT_REFRESH_PRIVATE_KEY,required"`
	JWTRefreshPublicKey    string        `env:"JWT_REFRESH_PUBLIC_KEY,required"`
	AccessTokenTTL         time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL        time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	LoginRateLimitPerMin   int           `env:"LOGIN_RATE_LIMIT_PER_MIN" envDefault:"10"`
	APIRateLimitPerMin     int           `env:"API_RATE_LIMIT_PER_MIN" envDefault:"600"`
	RateLimitRedisEnabled  bool          `env:"RATE_LIMIT_REDIS_ENABLED" envDefault:"true"`
	RateLimitFailOpen      bool          `env:"RATE_LIMIT_FAIL_OPEN" envDefault:"false"`
	RateLimitRedisPrefix   string        `env:"RATE_LIMIT_REDIS_PREFIX" envDefault:"rl"`
	LeadEncryptionKeyValue string        `env:"LEAD_ENCRYPTION_KEY,required"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"s3"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`

	MailBackend     string `env:"MAIL_BACKEND" envDefault:"log"`
	SMTPHost        string `env:"SMTP_HOST"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername    string `env:"SMTP_USERNAME"`
	SMTPPassword    string `env:"SMTP_PASSWORD"`
	MailFrom        string `env:"MAIL_FROM"`
	MailConcurrency int    `env:"MAIL_CONCURRENCY" envDefault:"4"`
	MailQueueSize   int    `env:"MAIL_QUEUE_SIZE" envDefault:"256"`

	OTELServiceName           string        `env:"OTEL_SERVICE_NAME" envDefault:"backoffice-api"`
	OTELEnvironment           string        `env:"OTEL_ENVIRONMENT"`
	OTELExporterOTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELExporterOTLPInsecure  bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELMetricsEnabled        bool          `env:"OTEL_METRICS_ENABLED" envDefault:"false"`
	OTELTracingEnabled        bool          `env:"OTEL_TRACING_ENABLED" envDefault:"false"`
	OTELLogsEnabled           bool          `env:"OTEL_LOGS_ENABLED" envDefault:"false"`
	OTELHTTPEnabled           bool          `env:"OTEL_HTTP_ENABLED" envDefault:"false"`
	OTELMetricsExportInterval time.Duration `env:"OTEL_METRICS_EXPORT_INTERVAL" envDefault:"15s"`
	OTELTraceSamplingRatio    float64       `env:"OTEL_TRACE_SAMPLING_RATIO" envDefault:"1"`

	ReadinessProbeTimeout        time.Duration `env:"READINESS_PROBE_TIMEOUT" envDefault:"1s"`
	ReadinessCacheTTL            time.Duration `env:"READINESS_CACHE_TTL" envDefault:"2s"`
	ShutdownTimeout              time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"20s"`
	ShutdownHTTPDrainTimeout     time.Duration `env:"SHUTDOWN_HTTP_DRAIN_TIMEOUT" envDefault:"10s"`
	ShutdownObservabilityTimeout time.Duration `env:"SHUTDOWN_OBSERVABILITY_TIMEOUT" envDefault:"5s"`

	AccessKeys        security.KeyPair `env:"-"`
	RefreshKeys       security.KeyPair `env:"-"`
	LeadEncryptionKey []byte           `env:"-"`
}

// Load reads .env (when present) and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		err = fmt.Errorf("parse config: %w", err)
		recordConfigValidationEvent(context.Background(), os.Getenv("APP_ENV"), "failure", classifyConfigLoadError(err))
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		err = fmt.Errorf("validate config: %w", err)
		recordConfigValidationEvent(context.Background(), cfg.AppEnv, "failure", classifyConfigLoadError(err))
		return nil, err
	}
	recordConfigValidationEvent(context.Background(), cfg.AppEnv, "success", "none")
	return &cfg, nil
}

// Validate checks cross-field constraints and fills the derived fields.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	switch c.AppEnv {
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be one of development|test|staging|production, got %q", c.AppEnv))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	switch c.SessionBackend {
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis"))
		}
	case "memory":
		if c.AppEnv == EnvProduction {
			errs = append(errs, errors.New("SESSION_BACKEND=memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be redis or memory, got %q", c.SessionBackend))
	}

	if kp, err := security.ParseKeyPair(c.JWTAccessPrivateKey, c.JWTAccessPublicKey); err != nil {
		errs = append(errs, fmt.Errorf("JWT_ACCESS keys: %w", err))
	} else {
		c.AccessKeys = kp
	}
	if kp, err := security.ParseKeyPair(c.JWTRefreshPrivateKey, c.JWTRefreshPublicKey); err != nil {
		errs = append(errs, fmt.Errorf("JWT_REFRESH keys: %w", err))
	} else {
		c.RefreshKeys = kp
	}
	if c.AccessKeys.Public != nil && c.RefreshKeys.Public != nil && c.AccessKeys.Public.Equal(c.RefreshKeys.Public) {
		errs = append(errs, errors.New("access and refresh key pairs must differ"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL"))
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.LeadEncryptionKeyValue))
	if err != nil || len(key) != 32 {
		errs = append(errs, errors.New("LEAD_ENCRYPTION_KEY must be 32 bytes, base64 encoded"))
	} else {
		c.LeadEncryptionKey = key
	}

	switch c.StorageBackend {
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be s3 or memory, got %q", c.StorageBackend))
	}

	switch c.MailBackend {
	case "smtp":
		if strings.TrimSpace(c.SMTPHost) == "" || strings.TrimSpace(c.MailFrom) == "" {
			errs = append(errs, errors.New("SMTP_HOST and MAIL_FROM are required when MAIL_BACKEND=smtp"))
		}
	case "log":
	default:
		errs = append(errs, fmt.Errorf("MAIL_BACKEND must be smtp or log, got %q", c.MailBackend))
	}
	if c.MailConcurrency <= 0 {
		c.MailConcurrency = 1
	}
	if c.MailQueueSize < c.MailConcurrency {
		c.MailQueueSize = c.MailConcurrency
	}

	if c.OTELEnvironment == "" {
		c.OTELEnvironment = c.AppEnv
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACE_SAMPLING_RATIO must be within [0,1]"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// CookieOptions derives auth cookie attributes. Cookies are Secure only in
// production.
func (c *Config) CookieOptions() security.CookieOptions {
	return security.CookieOptions{Secure: c.IsProduction(), Domain: c.CookieDomain}
}
