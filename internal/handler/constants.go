package handler

import "time"

// User-facing error messages
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgInvalidJobID       = "Invalid job ID"
	ErrMsgJobNotFound        = "Job not found"
	ErrMsgSyncBusy           = "A synchronization is already queued"
)

// MsgSyncQueued confirms an accepted synchronization request.
const MsgSyncQueued = "Synchronization queued"

// Log messages
const (
	LogMsgEncodeFailed  = "Failed to encode JSON response"
	LogMsgWriteFailed   = "Failed to write response buffer"
	LogMsgReadyzFailed  = "Readiness check failed"
	LogMsgJobsFailed    = "Failed to build jobs document"
	LogMsgJobFailed     = "Failed to build job document"
	LogMsgSyncTriggered = "Synchronization triggered"
	LogMsgSyncNotQueued = "Synchronization not queued"
)

// Job document cache
const (
	JobCacheSize = 256
	JobCacheTTL  = time.Hour
)

// ReadyzTimeout bounds the database ping of the readiness check.
const ReadyzTimeout = 2 * time.Second
