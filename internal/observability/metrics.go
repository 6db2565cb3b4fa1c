package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// archive scanner.
type Metrics struct {
	FilesParsed prometheus.Counter
	FilesFailed prometheus.Counter
	RowsParsed  *prometheus.CounterVec // label: variable={PPT,TMAX,TMIN}
	RowsMissing prometheus.Counter
	RowErrors   prometheus.Counter

	ScanRunning  prometheus.Gauge
	LastScanUnix prometheus.Gauge
	ScanDuration prometheus.Histogram
	FileRows     prometheus.Histogram
}

// NewMetrics creates and registers all scanner metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesParsed,
		m.FilesFailed,
		m.RowsParsed,
		m.RowsMissing,
		m.RowErrors,
		m.ScanRunning,
		m.LastScanUnix,
		m.ScanDuration,
		m.FileRows,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csag",
			Name:      "files_parsed_total",
			Help:      "Total station files parsed successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csag",
			Name:      "files_failed_total",
			Help:      "Total station files rejected with a parse error.",
		}),
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csag",
			Name:      "rows_parsed_total",
			Help:      "Total observation rows parsed, by variable.",
		}, []string{"variable"}),
		RowsMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csag",
			Name:      "rows_missing_total",
			Help:      "Total observation rows carrying the missing-value sentinel.",
		}),
		RowErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csag",
			Name:      "row_errors_total",
			Help:      "Total malformed rows skipped in permissive mode.",
		}),
		ScanRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csag",
			Name:      "scan_running",
			Help:      "1 while an archive scan is in progress, 0 otherwise.",
		}),
		LastScanUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csag",
			Name:      "last_scan_timestamp_seconds",
			Help:      "Unix time of the last completed archive scan.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "csag",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a complete archive scan.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		FileRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "csag",
			Name:      "file_rows",
			Help:      "Number of observation rows per parsed station file.",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
	}
}
