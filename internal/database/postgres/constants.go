package postgres

// BatchSize is the number of rows All reads per round trip.
const BatchSize = 5000

// RecentChangesLimit caps the rows returned for one job's changes.
const RecentChangesLimit = 20

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Endpoint Operations
const (
	ErrMsgFailedToBuildQuery   = "failed to build query"
	ErrMsgFailedToCreateTable  = "failed to create table"
	ErrMsgFailedToCopyRows     = "failed to copy rows"
	ErrMsgFailedToDeleteRows   = "failed to delete rows"
	ErrMsgFailedToQueryRows    = "failed to query rows"
	ErrMsgFailedToScanRow      = "failed to scan row"
	ErrMsgFailedToCountRows    = "failed to count rows"
	ErrMsgFailedToQueryChanges = "failed to query recent changes"
)

// Error Messages - Job Log Operations
const (
	ErrMsgFailedToStartJob      = "failed to start job"
	ErrMsgFailedToUpdateJob     = "failed to update job status"
	ErrMsgFailedToQueryJobs     = "failed to query jobs"
	ErrMsgFailedToCreateJobsLog = "failed to create job log table"
	ErrMsgJobNotFound           = "job not found"
)

// Log Messages
const (
	LogMsgSQL              = "SQL"
	LogMsgFailedToRollback = "Failed to rollback transaction"
	LogMsgTableCreated     = "Table ready"
	LogMsgRowsAdded        = "Rows added"
	LogMsgRowsDeleted      = "Rows deleted"
)

// Log field keys
const (
	LogFieldSQL   = "sql"
	LogFieldArgs  = "args"
	LogFieldTable = "table"
	LogFieldCount = "count"
)
