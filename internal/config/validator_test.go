package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:              8080,
		LogLevel:          "info",
		LogFormat:         "text",
		ServiceName:       DefaultServiceName,
		Environment:       "dev",
		DBUser:            "postgres",
		DBPassword:        "secret",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBName:            "aapi",
		DBSSLMode:         "disable",
		DBMaxConns:        4,
		DBMaxConnIdleTime: time.Minute,
		DBMaxConnLifetime: time.Hour,
		APIBaseURL:        DefaultAPIBaseURL,
		APIPageSize:       1000,
		APIRateLimit:      5,
		APITimeout:        time.Minute,
		ExportDir:         "web/data",
		SyncInterval:      time.Hour,
		HistoryDays:       30,
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_ListsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = ""
	cfg.APITimeout = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBHost")
	assert.Contains(t, err.Error(), "APITimeout")
}

func TestValidate_AcceptsIPHost(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost = "10.0.0.12"

	assert.NoError(t, Validate(cfg))
}

func TestWarnings(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Warnings(cfg))

	cfg.Environment = "prod"
	cfg.DBPassword = DefaultDBPassword
	cfg.APIRateLimit = 0
	assert.Len(t, Warnings(cfg), 3)
}
