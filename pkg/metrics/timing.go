// Package metrics provides performance instrumentation for netstats.
//
// Timing metrics are collected in-memory per named operation with atomic
// operations for thread-safety. Collection is enabled by default but can be
// disabled via NETSTATS_METRICS=0.
//
// Usage:
//
//	func expensiveKernel() {
//	    defer metrics.Timer("kernel.betweenness")()
//	    // ... kernel body
//	}
package metrics

import (
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// enabled controls whether metrics are collected.
// Defaults to true unless NETSTATS_METRICS=0 is set.
var enabled = os.Getenv("NETSTATS_METRICS") != "0"

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled = e
}

// TimingMetric tracks timing statistics for a named operation.
// All methods are thread-safe using atomic operations.
type TimingMetric struct {
	name    string
	count   int64
	totalNs int64
	maxNs   int64
	minNs   int64 // 0 means not set
}

// registry holds metrics keyed by name, created on first use.
var registry sync.Map // string -> *TimingMetric

// Get returns the metric with the given name, creating it if needed.
func Get(name string) *TimingMetric {
	if m, ok := registry.Load(name); ok {
		return m.(*TimingMetric)
	}
	m, _ := registry.LoadOrStore(name, &TimingMetric{name: name})
	return m.(*TimingMetric)
}

// Record records a single timing measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	ns := d.Nanoseconds()

	atomic.AddInt64(&m.count, 1)
	atomic.AddInt64(&m.totalNs, ns)

	for {
		old := atomic.LoadInt64(&m.maxNs)
		if ns <= old || atomic.CompareAndSwapInt64(&m.maxNs, old, ns) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&m.minNs)
		if old != 0 && ns >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.minNs, old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

// Stats returns all timing statistics at once.
func (m *TimingMetric) Stats() TimingStats {
	count := atomic.LoadInt64(&m.count)
	totalNs := atomic.LoadInt64(&m.totalNs)
	maxNs := atomic.LoadInt64(&m.maxNs)
	minNs := atomic.LoadInt64(&m.minNs)

	var avgNs int64
	if count > 0 {
		avgNs = totalNs / count
	}

	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(totalNs) / 1e6,
		AvgMs:   float64(avgNs) / 1e6,
		MaxMs:   float64(maxNs) / 1e6,
		MinMs:   float64(minNs) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	atomic.StoreInt64(&m.count, 0)
	atomic.StoreInt64(&m.totalNs, 0)
	atomic.StoreInt64(&m.maxNs, 0)
	atomic.StoreInt64(&m.minNs, 0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
// Use with defer for automatic timing:
//
//	func myFunc() {
//	    defer metrics.Timer("my_func")()
//	    // ... function body
//	}
func Timer(name string) func() {
	if !enabled {
		return func() {}
	}
	m := Get(name)
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// AllTimingStats returns stats for every metric with at least one
// measurement, sorted by name for stable output.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	registry.Range(func(_, v any) bool {
		m := v.(*TimingMetric)
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
		return true
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// ResetAll resets all registered metrics.
func ResetAll() {
	registry.Range(func(_, v any) bool {
		v.(*TimingMetric).Reset()
		return true
	})
}
