package config

import "time"

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "aapi-versioned"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"

	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBHost            = "localhost"
	DefaultDBPort            = "5432"
	DefaultDBName            = "aapi"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxConns        = 4
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultAPIBaseURL   = "https://api.data.amsterdam.nl/"
	DefaultAPIPageSize  = 1000
	DefaultAPIRateLimit = 5.0
	DefaultAPITimeout   = 60 * time.Second

	DefaultExportDir    = "web/data"
	DefaultSyncInterval = 24 * time.Hour
	DefaultHistoryDays  = 30
)

// Error messages
const (
	ErrMsgInvalidPort   = "invalid PORT value"
	ErrMsgInvalidConfig = "invalid configuration"
)
