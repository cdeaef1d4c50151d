package bootstrap

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/wpk-/aapi-versioned/internal/config"
	"github.com/wpk-/aapi-versioned/internal/logger"
)

// SetupLogger installs the default logger. Output goes to stdout and, when
// cfg.LogDir is set, to a new timestamped file in that directory. The caller
// closes the returned file, which is nil without a log directory.
func SetupLogger(cfg *config.Config, now time.Time) (*os.File, error) {
	var (
		w       io.Writer = os.Stdout
		logFile *os.File
	)
	if cfg.LogDir != "" {
		f, err := logger.OpenLogFile(cfg.LogDir, now)
		if err != nil {
			return nil, err
		}
		logFile = f
		w = io.MultiWriter(os.Stdout, logFile)
	}

	addSource := cfg.Environment == logger.EnvironmentDev
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)
	logger.InitLoggerWithWriter(loggerConfig, w)

	slog.Info(LogMsgLoggingInitialized, "level", loggerConfig.LogLevel())
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"api_base_url", cfg.APIBaseURL,
		"history_days", cfg.HistoryDays,
		"port", cfg.Port)

	for _, warning := range config.Warnings(cfg) {
		slog.Warn(LogMsgConfigWarning, "warning", warning)
	}

	return logFile, nil
}
