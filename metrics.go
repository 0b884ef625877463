package topk

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/topk/buffer"
)

// Selection modes reported in SelectStats.
const (
	ModeSequential  = "sequential"
	ModeParallel    = "parallel"
	ModeParallelSeq = "parallel_seq"
)

// SelectStats describes one completed selection.
type SelectStats struct {
	Mode       string
	K          int
	Partitions int
	buffer.Stats

	// Skipped counts absent elements that were never offered.
	Skipped int64

	// Retained is the length of the result.
	Retained int
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implementations must be safe for concurrent use: parallel selections
// record combines from several goroutines.
//
// See the prommetrics package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordSelect is called once per selection, after it finished or
	// failed. err is nil if successful.
	RecordSelect(stats SelectStats, duration time.Duration, err error)

	// RecordCombine is called for every pairwise combination of partial
	// results.
	RecordCombine(duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSelect(SelectStats, time.Duration, error) {}
func (NoopMetricsCollector) RecordCombine(time.Duration)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SelectCount      atomic.Int64
	SelectErrors     atomic.Int64
	SelectTotalNanos atomic.Int64
	Offered          atomic.Int64
	Rejected         atomic.Int64
	Evicted          atomic.Int64
	Skipped          atomic.Int64
	Retained         atomic.Int64
	CombineCount     atomic.Int64
	CombineNanos     atomic.Int64
}

// RecordSelect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSelect(stats SelectStats, duration time.Duration, err error) {
	b.SelectCount.Add(1)
	b.SelectTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SelectErrors.Add(1)
		return
	}
	b.Offered.Add(stats.Offered)
	b.Rejected.Add(stats.Rejected)
	b.Evicted.Add(stats.Evicted)
	b.Skipped.Add(stats.Skipped)
	b.Retained.Add(int64(stats.Retained))
}

// RecordCombine implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCombine(duration time.Duration) {
	b.CombineCount.Add(1)
	b.CombineNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SelectCount:     b.SelectCount.Load(),
		SelectErrors:    b.SelectErrors.Load(),
		SelectAvgNanos:  avg(b.SelectTotalNanos.Load(), b.SelectCount.Load()),
		Offered:         b.Offered.Load(),
		Rejected:        b.Rejected.Load(),
		Evicted:         b.Evicted.Load(),
		Skipped:         b.Skipped.Load(),
		Retained:        b.Retained.Load(),
		CombineCount:    b.CombineCount.Load(),
		CombineAvgNanos: avg(b.CombineNanos.Load(), b.CombineCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SelectCount     int64
	SelectErrors    int64
	SelectAvgNanos  int64
	Offered         int64
	Rejected        int64
	Evicted         int64
	Skipped         int64
	Retained        int64
	CombineCount    int64
	CombineAvgNanos int64
}

// RejectionRate returns the share of offered elements rejected by a full
// buffer, or 0 when nothing was offered.
func (s BasicMetricsStats) RejectionRate() float64 {
	if s.Offered == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(s.Offered)
}
