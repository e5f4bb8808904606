package tskit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// metrics/prom provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordHandleOpen is called after a table collection or tree sequence
	// handle is created. kind is "table_collection" or "tree_sequence".
	RecordHandleOpen(kind string)

	// RecordHandleClose is called after a handle is finalized.
	RecordHandleClose(kind string)

	// RecordDump is called after each dump. bytes is the encoded size when
	// known.
	RecordDump(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after each load.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordSimplify is called after each simplification.
	RecordSimplify(nodesBefore, nodesAfter int, duration time.Duration, err error)

	// RecordTreeAdvance is called each time a tree iterator moves onto a
	// tree.
	RecordTreeAdvance()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordHandleOpen(string)                       {}
func (NoopMetricsCollector) RecordHandleClose(string)                      {}
func (NoopMetricsCollector) RecordDump(int64, time.Duration, error)        {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)        {}
func (NoopMetricsCollector) RecordSimplify(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordTreeAdvance()                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	HandlesOpened      atomic.Int64
	HandlesClosed      atomic.Int64
	DumpCount          atomic.Int64
	DumpErrors         atomic.Int64
	DumpBytes          atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
	SimplifyCount      atomic.Int64
	SimplifyErrors     atomic.Int64
	SimplifyTotalNanos atomic.Int64
	NodesRemoved       atomic.Int64
	TreeAdvances       atomic.Int64
}

// RecordHandleOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHandleOpen(string) {
	b.HandlesOpened.Add(1)
}

// RecordHandleClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHandleClose(string) {
	b.HandlesClosed.Add(1)
}

// RecordDump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDump(bytes int64, _ time.Duration, err error) {
	b.DumpCount.Add(1)
	if err != nil {
		b.DumpErrors.Add(1)
		return
	}
	b.DumpBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordSimplify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSimplify(nodesBefore, nodesAfter int, duration time.Duration, err error) {
	b.SimplifyCount.Add(1)
	b.SimplifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SimplifyErrors.Add(1)
		return
	}
	b.NodesRemoved.Add(int64(nodesBefore - nodesAfter))
}

// RecordTreeAdvance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTreeAdvance() {
	b.TreeAdvances.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		HandlesOpened:    b.HandlesOpened.Load(),
		HandlesClosed:    b.HandlesClosed.Load(),
		DumpCount:        b.DumpCount.Load(),
		DumpErrors:       b.DumpErrors.Load(),
		DumpBytes:        b.DumpBytes.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
		SimplifyCount:    b.SimplifyCount.Load(),
		SimplifyErrors:   b.SimplifyErrors.Load(),
		SimplifyAvgNanos: b.getAvgSimplifyNanos(),
		NodesRemoved:     b.NodesRemoved.Load(),
		TreeAdvances:     b.TreeAdvances.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSimplifyNanos() int64 {
	count := b.SimplifyCount.Load()
	if count == 0 {
		return 0
	}
	return b.SimplifyTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	HandlesOpened    int64
	HandlesClosed    int64
	DumpCount        int64
	DumpErrors       int64
	DumpBytes        int64
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
	SimplifyCount    int64
	SimplifyErrors   int64
	SimplifyAvgNanos int64
	NodesRemoved     int64
	TreeAdvances     int64
}

// OpenHandles returns the number of handles opened but not yet closed.
func (s BasicMetricsStats) OpenHandles() int64 {
	return s.HandlesOpened - s.HandlesClosed
}
