package syncer

import "time"

// FinishTimeout bounds the terminal job status write after a run ends.
const FinishTimeout = 10 * time.Second

// Error messages
const (
	ErrMsgFetchIncomplete = "remote fetch incomplete; deletions skipped"
	ErrMsgPanic           = "panic during synchronization"
)

// Log messages
const (
	LogMsgFetchIncomplete = "Remote fetch incomplete"
	LogMsgTaskSetupFailed = "Task setup failed"
	LogMsgTaskFailed      = "Task failed"
	LogMsgTaskPartial     = "Task finished without deletions"
	LogMsgTaskDone        = "Task done"
	LogMsgStatusFailed    = "Failed to record job status"
	LogMsgRunStarted      = "Synchronization started"
	LogMsgRunFinished     = "Synchronization finished"
)

// Log field keys
const (
	LogFieldTarget  = "target"
	LogFieldJobID   = "job_id"
	LogFieldPhase   = "phase"
	LogFieldFetched = "fetched"
	LogFieldCreated = "created"
	LogFieldDeleted = "deleted"
	LogFieldTasks   = "tasks"
	LogFieldFailed  = "failed"
)
