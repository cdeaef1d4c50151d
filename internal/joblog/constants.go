package joblog

// DefaultHistoryDays is the width of the recent-jobs window when none is
// configured.
const DefaultHistoryDays = 30

// TableName is the audit table.
const TableName = "sync_log"

// Log messages
const (
	LogMsgJobStarted       = "Job started"
	LogMsgJobStatusChanged = "Job status change"
)

// Log field keys
const (
	LogFieldJobID  = "job_id"
	LogFieldTarget = "target"
	LogFieldStatus = "status"
	LogFieldUpdate = "update"
)
