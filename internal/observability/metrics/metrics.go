// Package metrics registers pipeline observability metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "conso_"

	resultSuccess = "success"
	resultError   = "error"
	resultEmpty   = "empty"
)

var (
	registerOnce sync.Once

	fetchRequests *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec

	normalizedRows  prometheus.Counter
	zeroFilledCells *prometheus.CounterVec
	badTimestamps   prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers the pipeline metrics exactly once.
func Init() {
	registerOnce.Do(func() {
		fetchRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_requests_total",
				Help: "Total catalog fetch requests by result",
			},
			[]string{"result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Catalog fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		normalizedRows = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalized_rows_total",
				Help: "Total rows accepted by normalization",
			},
		)
		zeroFilledCells = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "zero_filled_cells_total",
				Help: "Total consumption cells defaulted to zero by column",
			},
			[]string{"column"},
		)
		badTimestamps = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "bad_timestamps_total",
				Help: "Total rows whose timestamp failed to parse",
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			fetchRequests,
			fetchLatency,
			normalizedRows,
			zeroFilledCells,
			badTimestamps,
			exportTotal,
			exportLatency,
		)
	})
}

// ObserveFetch records one fetch attempt.
func ObserveFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if fetchRequests != nil {
		fetchRequests.WithLabelValues(result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddNormalizedRows counts rows accepted by normalization.
func AddNormalizedRows(count int) {
	if count <= 0 {
		return
	}
	if normalizedRows != nil {
		normalizedRows.Add(float64(count))
	}
}

// AddZeroFilledCells counts cells the zero-fill policy touched.
func AddZeroFilledCells(column string, count int) {
	if column == "" || count <= 0 {
		return
	}
	if zeroFilledCells != nil {
		zeroFilledCells.WithLabelValues(column).Add(float64(count))
	}
}

// AddBadTimestamps counts rows with an unparsable timestamp.
func AddBadTimestamps(count int) {
	if count <= 0 {
		return
	}
	if badTimestamps != nil {
		badTimestamps.Add(float64(count))
	}
}

// ObserveExport records one export operation.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultEmpty   = resultEmpty
)
