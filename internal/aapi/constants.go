package aapi

import "time"

// Client defaults
const (
	DefaultPageSize  = 1000
	DefaultRateLimit = 5 // requests per second
	DefaultTimeout   = 60 * time.Second
)

// Query parameters understood by the remote API.
const (
	ParamPageSize = "_pageSize"
	ParamFormat   = "_format"
	FormatJSON    = "json"
)

// Response keys
const (
	KeyEmbedded = "_embedded"
	KeyLinks    = "_links"
	KeyNext     = "next"
	KeyHref     = "href"
	KeyResults  = "results"
)

// HeaderAPIKey carries the optional API key.
const HeaderAPIKey = "X-Api-Key"

// Error messages
const (
	ErrMsgRequestFailed    = "request failed"
	ErrMsgUnexpectedStatus = "unexpected status"
	ErrMsgDecodePage       = "failed to decode page"
	ErrMsgBuildURL         = "failed to build request URL"
	ErrMsgRateLimited      = "rate limiter wait failed"
)

// Log messages
const (
	LogMsgPageFetched = "Fetched page"
)

// Log fields
const (
	LogFieldURL     = "url"
	LogFieldRecords = "records"
	LogFieldPage    = "page"
)
