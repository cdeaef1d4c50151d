package versioned

import "errors"

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Error Messages
const (
	ErrMsgSchemaMismatch    = "model does not match schema"
	ErrMsgCoerceField       = "cannot coerce remote value"
	ErrMsgUnsupportedTarget = "unsupported field target"
	ErrMsgOutOfRange        = "integer out of range"
	ErrMsgNotAnInteger      = "not an integer"
	ErrMsgInvalidTimestamp  = "invalid timestamp"
	ErrMsgInvalidDate       = "invalid date"
	ErrMsgInvalidTime       = "invalid time of day"
)
