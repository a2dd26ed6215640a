// Package metrics records per-URL fetch timings and allocation deltas.
// Nothing else in this module calls it (the CLI's -perf report comes
// from internal/profile); it has no bearing on what internal/opendata
// resolves or downloads.
package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// FetchMetrics holds a timing breakdown for one resolved URL's fetch.
type FetchMetrics struct {
	TotalDuration    time.Duration
	TTFB             time.Duration
	BodyRead         time.Duration
	BytesTransferred int64
}

func (m *FetchMetrics) String() string {
	return fmt.Sprintf(
		"fetch: total=%v ttfb=%v read=%v bytes=%d",
		m.TotalDuration, m.TTFB, m.BodyRead, m.BytesTransferred,
	)
}

// AllocMetrics captures a before/after heap delta around an operation.
type AllocMetrics struct {
	DeltaAlloc uint64
	DeltaHeap  uint64
	Objects    uint64
}

func (a *AllocMetrics) String() string {
	return fmt.Sprintf("alloc: %d bytes, heap: %d bytes, objects: %d", a.DeltaAlloc, a.DeltaHeap, a.Objects)
}

// CaptureAllocMetrics snapshots heap stats now and returns a closure
// that, called later, reports the delta since the snapshot.
func CaptureAllocMetrics() func() AllocMetrics {
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	return func() AllocMetrics {
		runtime.GC()
		var after runtime.MemStats
		runtime.ReadMemStats(&after)
		return AllocMetrics{
			DeltaAlloc: after.Alloc - before.Alloc,
			DeltaHeap:  after.HeapInuse - before.HeapInuse,
			Objects:    after.HeapObjects - before.HeapObjects,
		}
	}
}

// Monitor accumulates fetch timings across several fetches and prints
// a summary report.
type Monitor struct {
	mu         sync.RWMutex
	fetchTimes []time.Duration
	startTime  time.Time
}

// NewMonitor creates a Monitor whose uptime is measured from now.
func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// RecordFetchTime records one fetch's total duration.
func (m *Monitor) RecordFetchTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchTimes = append(m.fetchTimes, d)
}

// AverageFetchTime returns the mean of all recorded fetch durations.
func (m *Monitor) AverageFetchTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.fetchTimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range m.fetchTimes {
		total += t
	}
	return total / time.Duration(len(m.fetchTimes))
}

// PrintReport writes a short performance summary, two lines, through
// the caller-supplied printf-like function.
func (m *Monitor) PrintReport(printf func(format string, args ...interface{})) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	printf("uptime: %v\n", time.Since(m.startTime))
	printf("fetches: %d (avg: %v)\n", len(m.fetchTimes), m.AverageFetchTime())
}
