package clients

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// HTTPMetrics tracks request counts, latencies and error kinds for one client.
type HTTPMetrics struct {
	totalRequests      int64
	successfulRequests int64
	failedRequests     int64

	latencySamples []time.Duration
	sampleIndex    int
	maxSamples     int

	errorsByType map[string]int64

	mu sync.RWMutex
}

// NewHTTPMetrics creates a new HTTP metrics tracker
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		latencySamples: make([]time.Duration, 0, 1000),
		maxSamples:     1000,
		errorsByType:   make(map[string]int64),
	}
}

// RecordRequest records one request outcome
func (hm *HTTPMetrics) RecordRequest(method, host string, latency time.Duration, err error) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.totalRequests++
	if err != nil {
		hm.failedRequests++
		hm.errorsByType[classifyError(err)]++
	} else {
		hm.successfulRequests++
	}

	// Ring buffer of recent latencies
	if len(hm.latencySamples) < hm.maxSamples {
		hm.latencySamples = append(hm.latencySamples, latency)
	} else {
		hm.latencySamples[hm.sampleIndex] = latency
		hm.sampleIndex = (hm.sampleIndex + 1) % hm.maxSamples
	}
}

// GetAverageLatency returns the mean latency of recent requests
func (hm *HTTPMetrics) GetAverageLatency() time.Duration {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	if len(hm.latencySamples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range hm.latencySamples {
		total += s
	}
	return total / time.Duration(len(hm.latencySamples))
}

// GetP95Latency returns the 95th percentile latency of recent requests
func (hm *HTTPMetrics) GetP95Latency() time.Duration {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	if len(hm.latencySamples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(hm.latencySamples))
	copy(sorted, hm.latencySamples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * 0.95)
	return sorted[idx]
}

// GetErrorStats returns error counts grouped by kind
func (hm *HTTPMetrics) GetErrorStats() map[string]int64 {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	out := make(map[string]int64, len(hm.errorsByType))
	for k, v := range hm.errorsByType {
		out[k] = v
	}
	return out
}

func classifyError(err error) string {
	if errors.Is(err, ErrBodyTooLarge) {
		return "body_too_large"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "connection refused"):
		return "connection_refused"
	case strings.Contains(msg, "no such host"):
		return "dns"
	case strings.Contains(msg, "canceled"):
		return "canceled"
	default:
		return "other"
	}
}
