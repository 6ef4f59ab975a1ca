package config

import (
	"strings"
	"testing"
	"time"
)

func validConfigForTest() *Config {
	return &Config{
		Env:                       "test",
		AppBaseURL:                "http://localhost:8080",
		StoreDriver:               StoreDriverMongo,
		MongoURI:                  "mongodb://localhost:27017",
		MongoDatabase:             "codereview",
		AuthSecret:                "abcdefghijklmnopqrstuvwxyz123456",
		GoogleClientID:            "client-id",
		GoogleClientSecret:        "client-secret",
		SessionMaxAge:             30 * 24 * time.Hour,
		RoleCacheTTL:              time.Minute,
		APIRateLimitPerMin:        120,
		ContactRatePerMin:         5,
		AuthRatePerMin:            30,
		BodyLimitBytes:            1 << 20,
		SMTPPort:                  587,
		OTELTraceSamplingRatio:    1.0,
		OTELMetricsExportInterval: 10 * time.Second,
		OTELLogLevel:              "info",
	}
}

func TestValidateAcceptsMinimalMongoConfig(t *testing.T) {
	if err := validConfigForTest().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresMongoURI(t *testing.T) {
	cfg := validConfigForTest()
	cfg.MongoURI = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "MONGODB_URI is required") {
		t.Fatalf("expected MONGODB_URI error, got %v", err)
	}
}

func TestValidateSQLDriverRequiresDatabaseURL(t *testing.T) {
	cfg := validConfigForTest()
	cfg.StoreDriver = StoreDriverSQLite
	cfg.MongoURI = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
	cfg.DatabaseURL = "file::memory:"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sqlite config to validate, got %v", err)
	}
}

func TestValidateJoinsAllViolations(t *testing.T) {
	cfg := validConfigForTest()
	cfg.StoreDriver = "cassandra"
	cfg.AuthSecret = "short"
	cfg.GoogleClientID = ""
	cfg.OTELLogLevel = "verbose"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"STORE_DRIVER", "AUTH_SECRET", "GOOGLE_CLIENT_ID", "OTEL_LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestSessionSecretFallsBackToLegacyName(t *testing.T) {
	cfg := validConfigForTest()
	cfg.AuthSecret = ""
	cfg.LegacyAuthSecret = "legacy-secret-abcdefghijklmnopqrstuvwxyz"
	if got := cfg.SessionSecret(); got != cfg.LegacyAuthSecret {
		t.Fatalf("expected legacy secret, got %q", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected legacy secret to satisfy validation, got %v", err)
	}
}

func TestMailEnabledRequiresEveryVariable(t *testing.T) {
	cfg := validConfigForTest()
	if cfg.MailEnabled() {
		t.Fatal("expected mail disabled without smtp settings")
	}
	cfg.SMTPHost = "smtp.example.com"
	cfg.SMTPUser = "mailer"
	cfg.SMTPPass = "secret"
	if cfg.MailEnabled() {
		t.Fatal("expected mail disabled without ADMIN_EMAIL")
	}
	cfg.AdminEmail = "admin@example.com"
	if !cfg.MailEnabled() {
		t.Fatal("expected mail enabled")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("AUTH_SECRET", "abcdefghijklmnopqrstuvwxyz123456")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("APP_BASE_URL", "https://review.example.com/")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppBaseURL != "https://review.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AppBaseURL)
	}
	if cfg.GoogleRedirectURL != "https://review.example.com/api/auth/callback/google" {
		t.Fatalf("unexpected redirect url %q", cfg.GoogleRedirectURL)
	}
	if cfg.SMTPFrom != "mailer@example.com" {
		t.Fatalf("expected SMTP_FROM to default to SMTP_USER, got %q", cfg.SMTPFrom)
	}
	if cfg.SessionMaxAge != 720*time.Hour {
		t.Fatalf("unexpected session max age %v", cfg.SessionMaxAge)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected cors origins %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadFailsFastWithoutStoreURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("AUTH_SECRET", "abcdefghijklmnopqrstuvwxyz123456")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected load failure without MONGODB_URI")
	}
}

func TestLoadStoreSkipsWebOnlySettings(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg, err := LoadStore()
	if err != nil {
		t.Fatalf("expected store-only config to load, got %v", err)
	}
	if cfg.StoreDriver != StoreDriverSQLite {
		t.Fatalf("unexpected driver %q", cfg.StoreDriver)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected full load to require web settings")
	}
}
