package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Upstream UpstreamConfig
	Sync     SyncConfig
	Email    EmailConfig
	Webhook  WebhookConfig
	Redis    RedisConfig

	AdminEmail string
	LogLevel   string
}

// UpstreamConfig points at the cloud provider's metering APIs.
type UpstreamConfig struct {
	BaseURL        string
	TenantID       string
	ClientID       string
	ClientSecret   string
	RequestTimeout int
	MaxRetries     int
}

// SyncConfig controls the sync pipeline cadence and window sizes.
type SyncConfig struct {
	Schedule         string
	RunInterval      int
	CostLookbackDays int
	MetricSampleSize int
	MetricWorkers    int
	ZScoreThreshold  float64
	ForecastHorizon  int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

type WebhookConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "cloudlens"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "cloudlens"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Upstream: UpstreamConfig{
			BaseURL:        getenv("UPSTREAM_BASE_URL", ""),
			TenantID:       strings.TrimSpace(getenv("UPSTREAM_TENANT_ID", "")),
			ClientID:       strings.TrimSpace(getenv("UPSTREAM_CLIENT_ID", "")),
			ClientSecret:   strings.TrimSpace(getenv("UPSTREAM_CLIENT_SECRET", "")),
			RequestTimeout: getenvInt("UPSTREAM_REQUEST_TIMEOUT", 30),
			MaxRetries:     getenvInt("UPSTREAM_MAX_RETRIES", 3),
		},
		Sync: SyncConfig{
			Schedule:         getenv("SYNC_SCHEDULE", "0 */6 * * *"),
			RunInterval:      getenvInt("SYNC_RUN_INTERVAL", 21600),
			CostLookbackDays: getenvInt("SYNC_COST_LOOKBACK_DAYS", 30),
			MetricSampleSize: getenvInt("SYNC_METRIC_SAMPLE_SIZE", 5),
			MetricWorkers:    getenvInt("SYNC_METRIC_WORKERS", 3),
			ZScoreThreshold:  getenvFloat("SYNC_ZSCORE_THRESHOLD", 2.0),
			ForecastHorizon:  getenvInt("SYNC_FORECAST_HORIZON", 30),
		},
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "alerts@cloudlens.local"),
		},
		Webhook: WebhookConfig{
			URL: strings.TrimSpace(getenv("WEBHOOK_URL", "")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},

		AdminEmail: strings.TrimSpace(getenv("ADMIN_EMAIL", "")),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
