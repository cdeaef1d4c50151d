package bootstrap

// Worker pool sizing. A single worker keeps synchronization passes from
// overlapping; the queue holds at most one waiting pass.
const (
	SyncWorkers   = 1
	SyncQueueSize = 1
)

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting aapi-versioned"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgExportFailed        = "Export failed"
	LogMsgExportSkipped       = "Export directory not set, skipping export"
)

// Log messages for shutdown
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgStoppingScheduler    = "Stopping scheduler"
	LogMsgStoppingWorkers      = "Stopping sync workers"
	LogMsgServerStopped        = "Server stopped"
)

// Error messages
const (
	ErrMsgConnectDatabase = "failed to connect to database"
	ErrMsgCreateJobLog    = "failed to create job log"
	ErrMsgCreateClient    = "failed to create API client"
	ErrMsgCreateDatasets  = "failed to create datasets"
)
