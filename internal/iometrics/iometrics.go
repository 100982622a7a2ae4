// Package iometrics provides Prometheus metrics of FungiDB: TSV import,
// GBIF fetch and REST API requests.
//
// Usage:
//
//	// Record a written batch
//	RecordBatch(BatchOK, 2000, 1980, 20, 350*time.Millisecond)
//
//	// Record a GBIF request
//	RecordGBIFRequest(200)
//
//	// Expose metrics
//	r.Handle("/metrics", Handler())
package iometrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Batch outcomes.
const (
	BatchOK    = "ok"
	BatchError = "error"
)

var (
	// Import Metrics

	// ImportRecordsTotal counts species documents by stage:
	// queued, inserted, updated, duplicate.
	ImportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fungidb_import_records_total",
			Help: "Total number of species records processed by the importers",
		},
		[]string{"stage"},
	)

	// ImportBatchesTotal counts bulk writes by outcome.
	ImportBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fungidb_import_batches_total",
			Help: "Total number of species bulk writes",
		},
		[]string{"result"},
	)

	// ImportBatchDuration tracks latency of bulk writes.
	ImportBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fungidb_import_batch_duration_seconds",
			Help:    "Duration of species bulk writes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// ImportBatchesInFlight shows bulk writes currently running.
	ImportBatchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fungidb_import_batches_in_flight",
			Help: "Number of species bulk writes in progress",
		},
	)

	// GBIF Metrics

	// GBIFRequestsTotal counts GBIF API requests by HTTP status;
	// transport failures use status "error".
	GBIFRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fungidb_gbif_requests_total",
			Help: "Total number of GBIF API requests",
		},
		[]string{"status"},
	)

	// GBIFRetriesTotal counts repeated GBIF requests.
	GBIFRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fungidb_gbif_retries_total",
			Help: "Total number of retried GBIF API requests",
		},
	)

	// HTTP Metrics

	// HTTPRequestsTotal counts API requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fungidb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fungidb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordQueued adds records handed to the writers.
func RecordQueued(n int) {
	ImportRecordsTotal.WithLabelValues("queued").Add(float64(n))
}

// RecordBatch records one finished bulk write.
func RecordBatch(result string, inserted, updated, duplicates int, d time.Duration) {
	ImportBatchesTotal.WithLabelValues(result).Inc()
	ImportBatchDuration.Observe(d.Seconds())
	ImportRecordsTotal.WithLabelValues("inserted").Add(float64(inserted))
	ImportRecordsTotal.WithLabelValues("updated").Add(float64(updated))
	ImportRecordsTotal.WithLabelValues("duplicate").Add(float64(duplicates))
}

// RecordGBIFRequest records a GBIF response status, 0 means the request
// failed before a response arrived.
func RecordGBIFRequest(status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	GBIFRequestsTotal.WithLabelValues(label).Inc()
}

// RecordHTTPRequest records a served API request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
