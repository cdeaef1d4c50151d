package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Sync Metrics
var (
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncRunsTotal,
			Help: HelpTextSyncRunsTotal,
		},
		[]string{LabelTarget, LabelOutcome},
	)

	SyncRowsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncRowsCreated,
			Help: HelpTextSyncRowsCreated,
		},
		[]string{LabelTarget},
	)

	SyncRowsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncRowsDeleted,
			Help: HelpTextSyncRowsDeleted,
		},
		[]string{LabelTarget},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSyncDuration,
			Help:    HelpTextSyncDuration,
			Buckets: SyncDurationBuckets,
		},
		[]string{LabelTarget},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameSyncLastSuccess,
			Help: HelpTextSyncLastSuccess,
		},
		[]string{LabelTarget},
	)

	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemoteRequestsTotal,
			Help: HelpTextRemoteRequestsTotal,
		},
		[]string{LabelStatus},
	)
)

// RecordSync records the outcome of one dataset run.
func RecordSync(target, outcome string, created, deleted int, elapsed time.Duration, finished time.Time) {
	SyncRunsTotal.WithLabelValues(target, outcome).Inc()
	SyncRowsCreated.WithLabelValues(target).Add(float64(created))
	SyncRowsDeleted.WithLabelValues(target).Add(float64(deleted))
	SyncDuration.WithLabelValues(target).Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		SyncLastSuccess.WithLabelValues(target).Set(float64(finished.Unix()))
	}
}

// OutcomeSuccess is the outcome label of a complete run.
const OutcomeSuccess = "success"
