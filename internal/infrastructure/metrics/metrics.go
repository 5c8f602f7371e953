// Package metrics defines the Prometheus metrics of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/records"
)

// HTTPRequests counts API requests by route and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kopikeliling",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

// HTTPLatency tracks request latency in seconds.
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "kopikeliling",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
}, []string{"method", "route"})

// StoreMutations counts store mutations by operation and outcome.
var StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kopikeliling",
	Subsystem: "store",
	Name:      "mutations_total",
	Help:      "Record store mutations by op and outcome.",
}, []string{"op", "outcome"})

// StoreMutationDuration tracks the time from apply to publish.
var StoreMutationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "kopikeliling",
	Subsystem: "store",
	Name:      "mutation_duration_seconds",
	Help:      "Record store mutation latency including persistence.",
	Buckets:   prometheus.DefBuckets,
}, []string{"op"})

// CollectionWrites counts persisted collection payloads.
var CollectionWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kopikeliling",
	Subsystem: "store",
	Name:      "collection_writes_total",
	Help:      "Collections written to the backend.",
}, []string{"collection"})

// TransactionRows is the number of ledger rows in the published dataset.
var TransactionRows = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "kopikeliling",
	Subsystem: "store",
	Name:      "transaction_rows",
	Help:      "Ledger rows in the current dataset.",
})

// StoreObserver feeds store events into the metrics above.
type StoreObserver struct{}

var _ records.Observer = StoreObserver{}

// MutationApplied implements records.Observer.
func (StoreObserver) MutationApplied(m records.Mutation) {
	StoreMutations.WithLabelValues(m.Op, "applied").Inc()
	StoreMutationDuration.WithLabelValues(m.Op).Observe(m.Duration.Seconds())
	for _, c := range m.Collections {
		CollectionWrites.WithLabelValues(string(c)).Inc()
	}
}

// MutationFailed implements records.Observer. The outcome is the error code.
func (StoreObserver) MutationFailed(op string, err error) {
	outcome := apperror.CodeInternal
	if appErr, ok := apperror.AsAppError(err); ok {
		outcome = appErr.Code
	}
	StoreMutations.WithLabelValues(op, outcome).Inc()
}

// DatasetPublished implements records.Observer.
func (StoreObserver) DatasetPublished(d *records.Dataset) {
	TransactionRows.Set(float64(len(d.Transactions)))
}
