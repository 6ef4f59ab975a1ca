package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"codereview"`
	DatabaseURL   string `env:"DATABASE_URL"`

	AuthSecret          string        `env:"AUTH_SECRET"`
	LegacyAuthSecret    string        `env:"NEXTAUTH_SECRET"`
	SessionIssuer       string        `env:"SESSION_ISSUER" envDefault:"codereview-portal"`
	SessionAudience     string        `env:"SESSION_AUDIENCE" envDefault:"codereview-portal-web"`
	SessionMaxAge       time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`
	CookieSecure        bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	CookieDomain        string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSameSite      string        `env:"SESSION_COOKIE_SAMESITE" envDefault:"lax"`
	GoogleClientID      string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL   string        `env:"GOOGLE_REDIRECT_URL"`
	DefaultLandingPath  string        `env:"DEFAULT_LANDING_PATH" envDefault:"/dashboard"`
	RoleCacheTTL        time.Duration `env:"ROLE_CACHE_TTL" envDefault:"60s"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	APIRateLimitPerMin  int           `env:"API_RATE_LIMIT_PER_MIN" envDefault:"120"`
	ContactRatePerMin   int           `env:"CONTACT_RATE_LIMIT_PER_MIN" envDefault:"5"`
	AuthRatePerMin      int           `env:"AUTH_RATE_LIMIT_PER_MIN" envDefault:"30"`
	BodyLimitBytes      int64         `env:"HTTP_BODY_LIMIT_BYTES" envDefault:"1048576"`
	NotificationTimeout time.Duration `env:"NOTIFICATION_TIMEOUT" envDefault:"15s"`

	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"crp"`

	SMTPHost   string `env:"SMTP_HOST"`
	SMTPPort   int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPSecure bool   `env:"SMTP_SECURE" envDefault:"false"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASS"`
	AdminEmail string `env:"ADMIN_EMAIL"`
	SMTPFrom   string `env:"SMTP_FROM"`

	ArchiveEndpoint  string `env:"ARCHIVE_ENDPOINT"`
	ArchiveAccessKey string `env:"ARCHIVE_ACCESS_KEY"`
	ArchiveSecretKey string `env:"ARCHIVE_SECRET_KEY"`
	ArchiveBucket    string `env:"ARCHIVE_BUCKET" envDefault:"contact-archive"`
	ArchiveUseSSL    bool   `env:"ARCHIVE_USE_SSL" envDefault:"false"`

	ReadinessProbeTimeout  time.Duration `env:"READINESS_PROBE_TIMEOUT" envDefault:"1s"`
	ServerStartGracePeriod time.Duration `env:"SERVER_START_GRACE_PERIOD" envDefault:"0s"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"20s"`
	ShutdownHTTPDrain      time.Duration `env:"SHUTDOWN_HTTP_DRAIN_TIMEOUT" envDefault:"10s"`

	OTELServiceName           string        `env:"OTEL_SERVICE_NAME" envDefault:"codereview-portal"`
	OTELEnvironment           string        `env:"OTEL_ENVIRONMENT"`
	OTELExporterOTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELExporterOTLPInsecure  bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELMetricsExportInterval time.Duration `env:"OTEL_METRICS_EXPORT_INTERVAL" envDefault:"10s"`
	OTELTraceSamplingRatio    float64       `env:"OTEL_TRACE_SAMPLING_RATIO" envDefault:"1.0"`
	OTELMetricsEnabled        bool          `env:"OTEL_METRICS_ENABLED" envDefault:"false"`
	OTELTracingEnabled        bool          `env:"OTEL_TRACING_ENABLED" envDefault:"false"`
	OTELLogsEnabled           bool          `env:"OTEL_LOGS_ENABLED" envDefault:"false"`
	OTELLogLevel              string        `env:"OTEL_LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStore reads the same environment as Load but only validates what the
// command line tools need: the store and redis settings.
func LoadStore() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	var errs []string
	cfg.validateStore(&errs)
	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.CookieSameSite = strings.ToLower(strings.TrimSpace(c.CookieSameSite))
	c.OTELLogLevel = strings.ToLower(strings.TrimSpace(c.OTELLogLevel))
	c.AppBaseURL = strings.TrimRight(strings.TrimSpace(c.AppBaseURL), "/")
	if c.GoogleRedirectURL == "" {
		c.GoogleRedirectURL = c.AppBaseURL + "/api/auth/callback/google"
	}
	if c.SMTPFrom == "" {
		c.SMTPFrom = c.SMTPUser
	}
	if c.OTELEnvironment == "" {
		c.OTELEnvironment = c.Env
	}
	if c.DefaultLandingPath == "" || !strings.HasPrefix(c.DefaultLandingPath, "/") {
		c.DefaultLandingPath = "/dashboard"
	}
}

// SessionSecret prefers AUTH_SECRET and falls back to NEXTAUTH_SECRET.
func (c *Config) SessionSecret() string {
	if c.AuthSecret != "" {
		return c.AuthSecret
	}
	return c.LegacyAuthSecret
}

// MailEnabled reports whether every SMTP variable needed to notify the admin is set.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.AdminEmail != ""
}

func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveEndpoint != "" && c.ArchiveAccessKey != "" && c.ArchiveSecretKey != ""
}

func (c *Config) Validate() error {
	var errs []string
	c.validateStore(&errs)
	if len(c.SessionSecret()) < 32 {
		errs = append(errs, "AUTH_SECRET must be at least 32 chars")
	}
	if c.GoogleClientID == "" {
		errs = append(errs, "GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		errs = append(errs, "GOOGLE_CLIENT_SECRET is required")
	}
	if u, err := url.Parse(c.AppBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "APP_BASE_URL must be an absolute URL")
	}
	if c.SessionMaxAge <= 0 || c.SessionMaxAge > 90*24*time.Hour {
		errs = append(errs, "SESSION_MAX_AGE must be between 1s and 90d")
	}
	if c.RoleCacheTTL < 0 {
		errs = append(errs, "ROLE_CACHE_TTL must be >= 0")
	}
	if c.APIRateLimitPerMin <= 0 {
		errs = append(errs, "API_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.ContactRatePerMin <= 0 {
		errs = append(errs, "CONTACT_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		errs = append(errs, "SMTP_PORT must be a valid port")
	}
	if c.AuthRatePerMin <= 0 {
		errs = append(errs, "AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.BodyLimitBytes <= 0 {
		errs = append(errs, "HTTP_BODY_LIMIT_BYTES must be > 0")
	}
	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, "OTEL_EXPORTER_OTLP_ENDPOINT is required when OTel is enabled")
	}
	if c.OTELTraceSamplingRatio < 0 || c.OTELTraceSamplingRatio > 1 {
		errs = append(errs, "OTEL_TRACE_SAMPLING_RATIO must be between 0 and 1")
	}
	if c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, "OTEL_METRICS_EXPORT_INTERVAL must be > 0")
	}
	if !isValidLogLevel(c.OTELLogLevel) {
		errs = append(errs, "OTEL_LOG_LEVEL must be one of debug, info, warn, error")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore(errs *[]string) {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			*errs = append(*errs, "MONGODB_URI is required")
		}
		if c.MongoDatabase == "" {
			*errs = append(*errs, "MONGODB_DATABASE must not be empty")
		}
	case StoreDriverPostgres, StoreDriverSQLite:
		if c.DatabaseURL == "" {
			*errs = append(*errs, "DATABASE_URL is required when STORE_DRIVER="+c.StoreDriver)
		}
	default:
		*errs = append(*errs, "STORE_DRIVER must be one of mongo, postgres, sqlite")
	}
	if c.RedisEnabled && c.RedisAddr == "" {
		*errs = append(*errs, "REDIS_ADDR is required when REDIS_ENABLED=true")
	}
}

func IsLocalLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "local", "test":
		return true
	default:
		return false
	}
}

func isValidLogLevel(v string) bool {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
