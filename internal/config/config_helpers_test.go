package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVar = "AAPI_TEST_VAR"

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid integer", "100", 100},
		{"negative", "-10", -10},
		{"zero", "0", 0},
		{"not a number", "not-a-number", 42},
		{"float", "42.5", 42},
		{"empty", "", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsInt(testVar, 42))
		})
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"fraction", "0.5", 0.5},
		{"integer", "3", 3},
		{"zero disables", "0", 0},
		{"invalid", "fast", 2.5},
		{"empty", "", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsFloat(testVar, 2.5))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"minutes", "10m", 10 * time.Minute},
		{"hours", "24h", 24 * time.Hour},
		{"compound", "1h30m45s", time.Hour + 30*time.Minute + 45*time.Second},
		{"milliseconds", "500ms", 500 * time.Millisecond},
		{"no unit", "100", 5 * time.Minute},
		{"invalid", "daily", 5 * time.Minute},
		{"empty", "", 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration(testVar, 5*time.Minute))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "10.0.0.1", []string{"10.0.0.1"}},
		{"trims and drops empty", " 10.0.0.1 ,, 10.0.0.2,", []string{"10.0.0.1", "10.0.0.2"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsList(testVar))
		})
	}
}

func TestGetEnv_EmptyIsNotUnset(t *testing.T) {
	t.Setenv(testVar, "")
	assert.Equal(t, "", getEnv(testVar, "fallback"))
}

func TestLoad_DatabasePoolConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultDBMaxConns, cfg.DBMaxConns)
		assert.Equal(t, DefaultDBMaxConnIdleTime, cfg.DBMaxConnIdleTime)
		assert.Equal(t, DefaultDBMaxConnLifetime, cfg.DBMaxConnLifetime)
	})

	t.Run("custom", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DB_MAX_CONNS", "8")
		t.Setenv("DB_MAX_CONN_IDLE_TIME", "10m")
		t.Setenv("DB_MAX_CONN_LIFETIME", "1h")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8, cfg.DBMaxConns)
		assert.Equal(t, 10*time.Minute, cfg.DBMaxConnIdleTime)
		assert.Equal(t, time.Hour, cfg.DBMaxConnLifetime)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DB_MAX_CONNS", "not-a-number")
		t.Setenv("DB_MAX_CONN_IDLE_TIME", "invalid")
		t.Setenv("DB_MAX_CONN_LIFETIME", "bad-duration")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultDBMaxConns, cfg.DBMaxConns)
		assert.Equal(t, DefaultDBMaxConnIdleTime, cfg.DBMaxConnIdleTime)
		assert.Equal(t, DefaultDBMaxConnLifetime, cfg.DBMaxConnLifetime)
	})
}
