package export

// Files
const (
	JobsFile      = "jobs.json"
	JobFileSuffix = ".json"
	FileMode      = 0o644
	DirMode       = 0o755
)

// TimeOfDayLayout formats TIME columns.
const TimeOfDayLayout = "15:04:05.999999"

// Error messages
const (
	ErrMsgListJobs      = "failed to list recent jobs"
	ErrMsgUnknownTarget = "no task for target"
	ErrMsgJobNotFound   = "job not in recent history"
	ErrMsgRecentChanges = "failed to read changes"
	ErrMsgWriteFile     = "failed to write export file"
	ErrMsgRemoveFile    = "failed to remove stale export file"
	ErrMsgReadDir       = "failed to read export directory"
)

// Log messages
const (
	LogMsgExportWritten = "Export written"
	LogMsgStaleRemoved  = "Removed stale export file"
	LogMsgJobExported   = "Exported job changes"
)

// Log fields
const (
	LogFieldDir     = "dir"
	LogFieldFile    = "file"
	LogFieldJobs    = "jobs"
	LogFieldWritten = "written"
	LogFieldRemoved = "removed"
)
