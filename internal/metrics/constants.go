package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Sync metric names
const (
	MetricNameSyncRunsTotal       = "sync_runs_total"
	MetricNameSyncRowsCreated     = "sync_rows_created_total"
	MetricNameSyncRowsDeleted     = "sync_rows_deleted_total"
	MetricNameSyncDuration        = "sync_run_duration_seconds"
	MetricNameSyncLastSuccess     = "sync_last_success_timestamp_seconds"
	MetricNameRemoteRequestsTotal = "remote_requests_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Sync metric help text
const (
	HelpTextSyncRunsTotal       = "Total number of dataset synchronization runs by outcome"
	HelpTextSyncRowsCreated     = "Total number of versioned rows added"
	HelpTextSyncRowsDeleted     = "Total number of versioned rows soft-deleted"
	HelpTextSyncDuration        = "Dataset synchronization run duration in seconds"
	HelpTextSyncLastSuccess     = "Unix time of the last complete synchronization run"
	HelpTextRemoteRequestsTotal = "Total number of remote API page requests by status"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelTarget  = "target"
	LabelOutcome = "outcome"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SyncDurationBuckets spans one second to half an hour.
var SyncDurationBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800}
