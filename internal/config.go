package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Session token verification.
	// Tokens are issued by the hosted auth backend and verified locally
	// with the shared HS256 secret.
	AuthJWTSecret string
	AuthIssuer    string

	// Locale detection
	DefaultLocale   string            // "cs" or "en"
	LocaleDomains   map[string]string // production domain -> locale
	LocaleDevPorts  map[string]string // dev port -> locale
	LocaleCookieTTL time.Duration

	// Document storage for exported quote PDFs.
	StorageProvider string // "local" or "r2"

	// Local storage (development)
	LocalStoragePath string
	LocalStorageURL  string

	// R2 storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	// Draft session persistence.
	// The session tier lives in memory; the persistent tier is file backed.
	DraftStoragePath string

	// Metrics endpoint authentication.
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		AuthIssuer:    getEnv("AUTH_ISSUER", ""),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "cs"),
		LocaleDomains: map[string]string{
			getEnv("DOMAIN_CS", "qfast.cz"): "cs",
			getEnv("DOMAIN_EN", "qfast.co"): "en",
		},
		LocaleDevPorts: map[string]string{
			"3000": "cs",
			"3001": "en",
		},
		LocaleCookieTTL: getEnvDuration("LOCALE_COOKIE_TTL", 365*24*time.Hour),

		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		DraftStoragePath: getEnv("DRAFT_STORAGE_PATH", "./drafts"),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	cfg.DatabaseUrl = dbUrl

	if cfg.Env == "production" && cfg.AuthJWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required in production")
	}

	if cfg.StorageProvider == "r2" {
		missing := []string{}
		if cfg.R2AccountID == "" {
			missing = append(missing, "R2_ACCOUNT_ID")
		}
		if cfg.R2AccessKeyID == "" {
			missing = append(missing, "R2_ACCESS_KEY_ID")
		}
		if cfg.R2SecretAccessKey == "" {
			missing = append(missing, "R2_SECRET_ACCESS_KEY")
		}
		if cfg.R2BucketName == "" {
			missing = append(missing, "R2_BUCKET_NAME")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("r2 storage selected but missing: %s", strings.Join(missing, ", "))
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
