// Package metrics provides prometheus instrumentation for sheetsfdw wrappers.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("gsheets")
//	timer := metrics.NewTimer()
//	rows, err := fetch(ctx)
//	collector.ObserveFetch(timer.Stop(), len(rows), err)
//
//	collector.RowScanned()
//	collector.CellMapped("date", metrics.ResultAbsent)
//
// All vectors are registered on the default prometheus registry at package
// initialisation and labelled with the wrapper name.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cell mapping outcomes used as the "result" label of CellsMapped.
const (
	ResultOK     = "ok"
	ResultAbsent = "absent"
	ResultFailed = "failed"
)

var (
	// FetchRequests counts outbound fetches by outcome.
	// Labels: wrapper, status (success/error)
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetsfdw_fetch_requests_total",
			Help: "Total number of fetches issued to the remote source",
		},
		[]string{"wrapper", "status"},
	)

	// FetchDuration tracks fetch latency in seconds, decode included.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheetsfdw_fetch_duration_seconds",
			Help:    "Duration of one fetch including response decoding",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"wrapper"},
	)

	// RowsFetched counts source rows buffered into row stores.
	RowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetsfdw_rows_fetched_total",
			Help: "Total number of source rows buffered by begin scan",
		},
		[]string{"wrapper"},
	)

	// RowsScanned counts rows handed to the host.
	RowsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetsfdw_rows_scanned_total",
			Help: "Total number of rows produced by iter scan",
		},
		[]string{"wrapper"},
	)

	// CellsMapped counts target cells by requested type and outcome.
	// Labels: wrapper, type, result (ok/absent/failed)
	CellsMapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetsfdw_cells_mapped_total",
			Help: "Total number of target cells produced by the cell mapper",
		},
		[]string{"wrapper", "type", "result"},
	)

	// LifecycleErrors counts lifecycle calls that returned an error.
	// Labels: wrapper, operation, error_type
	LifecycleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetsfdw_lifecycle_errors_total",
			Help: "Total number of lifecycle calls that failed",
		},
		[]string{"wrapper", "operation", "error_type"},
	)

	// ActiveScans is 1 while a wrapper holds an open scan.
	ActiveScans = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sheetsfdw_active_scans",
			Help: "Number of open scans",
		},
		[]string{"wrapper"},
	)
)

// Collector binds the package vectors to one wrapper name.
type Collector struct {
	name string
}

// NewCollector creates a collector labelling every sample with name.
func NewCollector(name string) *Collector {
	return &Collector{name: name}
}

// Name returns the wrapper label
func (c *Collector) Name() string {
	return c.name
}

// ObserveFetch records one fetch attempt.
func (c *Collector) ObserveFetch(d time.Duration, rows int, err error) {
	FetchDuration.WithLabelValues(c.name).Observe(d.Seconds())
	if err != nil {
		FetchRequests.WithLabelValues(c.name, "error").Inc()
		return
	}
	FetchRequests.WithLabelValues(c.name, "success").Inc()
	RowsFetched.WithLabelValues(c.name).Add(float64(rows))
}

// RowScanned records one row produced for the host.
func (c *Collector) RowScanned() {
	RowsScanned.WithLabelValues(c.name).Inc()
}

// CellMapped records one cell mapping outcome.
func (c *Collector) CellMapped(typeName, result string) {
	CellsMapped.WithLabelValues(c.name, typeName, result).Inc()
}

// LifecycleError records a failed lifecycle call.
func (c *Collector) LifecycleError(operation, errorType string) {
	LifecycleErrors.WithLabelValues(c.name, operation, errorType).Inc()
}

// ScanOpened marks a scan as open.
func (c *Collector) ScanOpened() {
	ActiveScans.WithLabelValues(c.name).Set(1)
}

// ScanClosed marks the scan as closed.
func (c *Collector) ScanClosed() {
	ActiveScans.WithLabelValues(c.name).Set(0)
}

// Timer measures elapsed time
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer started
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
