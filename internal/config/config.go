package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string // empty disables the log file
	ServiceName string `validate:"required"`
	Version     string
	Environment string `validate:"oneof=dev staging prod test"`

	DBUser            string `validate:"required"`
	DBPassword        string
	DBHost            string `validate:"required,hostname_rfc1123|ip"`
	DBPort            string `validate:"required,numeric"`
	DBName            string `validate:"required"`
	DBSSLMode         string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxConns        int    `validate:"min=1,max=1000"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	APIBaseURL   string        `validate:"required,url"`
	APIKey       string        // optional, sent as X-Api-Key
	APIPageSize  int           `validate:"min=1,max=10000"`
	APIRateLimit float64       `validate:"min=0"`
	APITimeout   time.Duration `validate:"min=1s"`

	ExportDir    string
	SyncInterval time.Duration `validate:"min=1m"`
	HistoryDays  int           `validate:"min=1,max=3650"`

	AdminAPIKey    string   // required for POST requests when set
	TrustedProxies []string `validate:"dive,ip"`
}

// Load loads the configuration from environment variables and validates it
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", ""),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),

		DBUser:            getEnv("DB_USER", DefaultDBUser),
		DBPassword:        getEnv("DB_PASSWORD", DefaultDBPassword),
		DBHost:            getEnv("DB_HOST", DefaultDBHost),
		DBPort:            getEnv("DB_PORT", DefaultDBPort),
		DBName:            getEnv("DB_NAME", DefaultDBName),
		DBSSLMode:         getEnv("DB_SSLMODE", DefaultDBSSLMode),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		APIBaseURL:   getEnv("API_BASE_URL", DefaultAPIBaseURL),
		APIKey:       getEnv("API_KEY", ""),
		APIPageSize:  getEnvAsInt("API_PAGE_SIZE", DefaultAPIPageSize),
		APIRateLimit: getEnvAsFloat("API_RATE_LIMIT", DefaultAPIRateLimit),
		APITimeout:   getEnvAsDuration("API_TIMEOUT", DefaultAPITimeout),

		ExportDir:    getEnv("EXPORT_DIR", DefaultExportDir),
		SyncInterval: getEnvAsDuration("SYNC_INTERVAL", DefaultSyncInterval),
		HistoryDays:  getEnvAsInt("HISTORY_DAYS", DefaultHistoryDays),

		AdminAPIKey:    getEnv("ADMIN_API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when
// it is unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getEnvAsFloat parses a float variable, falling back to the default when
// it is unset or malformed
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvAsDuration parses a duration such as "10m", falling back to the
// default when it is unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}
