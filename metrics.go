package simgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordMatch is called after each match. results is the number of
	// returned matches, err is nil if successful.
	RecordMatch(matcher string, results int, duration time.Duration, err error)

	// RecordLoad is called after a knowledge base has been loaded.
	RecordLoad(classes, individuals int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMatch(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MatchCount      atomic.Int64
	MatchErrors     atomic.Int64
	MatchResults    atomic.Int64
	MatchTotalNanos atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadTotalNanos  atomic.Int64
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ string, results int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.MatchResults.Add(int64(results))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_, _ int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MatchCount:     b.MatchCount.Load(),
		MatchErrors:    b.MatchErrors.Load(),
		MatchResults:   b.MatchResults.Load(),
		MatchAvgNanos:  avg(b.MatchTotalNanos.Load(), b.MatchCount.Load()),
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadTotalNanos: b.LoadTotalNanos.Load(),
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
	MatchCount     int64
	MatchErrors    int64
	MatchResults   int64
	MatchAvgNanos  int64
	LoadCount      int64
	LoadErrors     int64
	LoadTotalNanos int64
}
