package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestFetchMetricsString(t *testing.T) {
	m := &FetchMetrics{
		TotalDuration:    500 * time.Millisecond,
		TTFB:             100 * time.Millisecond,
		BodyRead:         400 * time.Millisecond,
		BytesTransferred: 2048,
	}
	s := m.String()
	if !strings.Contains(s, "bytes=2048") {
		t.Errorf("String() = %q, want it to mention bytes=2048", s)
	}
}

func TestAllocMetricsString(t *testing.T) {
	a := &AllocMetrics{DeltaAlloc: 1024, DeltaHeap: 2048, Objects: 5}
	s := a.String()
	if !strings.Contains(s, "1024 bytes") || !strings.Contains(s, "objects: 5") {
		t.Errorf("String() = %q, missing expected fields", s)
	}
}

func TestCaptureAllocMetrics(t *testing.T) {
	done := CaptureAllocMetrics()
	buf := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		buf = append(buf, make([]byte, 1024))
	}
	_ = buf
	got := done()
	if got.Objects == 0 && got.DeltaAlloc == 0 {
		t.Skip("GC may have reclaimed allocations before capture; not a reliable assertion on all runtimes")
	}
}

func TestMonitorAverageFetchTime(t *testing.T) {
	m := NewMonitor()
	if avg := m.AverageFetchTime(); avg != 0 {
		t.Errorf("AverageFetchTime on empty monitor = %v, want 0", avg)
	}
	m.RecordFetchTime(100 * time.Millisecond)
	m.RecordFetchTime(300 * time.Millisecond)
	if avg := m.AverageFetchTime(); avg != 200*time.Millisecond {
		t.Errorf("AverageFetchTime = %v, want 200ms", avg)
	}
}

func TestMonitorPrintReport(t *testing.T) {
	m := NewMonitor()
	m.RecordFetchTime(50 * time.Millisecond)
	var lines []string
	m.PrintReport(func(format string, args ...interface{}) {
		lines = append(lines, format)
	})
	if len(lines) != 2 {
		t.Errorf("PrintReport printed %d lines, want 2", len(lines))
	}
}
