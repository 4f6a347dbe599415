package saltsearch

import (
	"math"
	"sync/atomic"

	"github.com/hupe1980/saltsearch/experiment"
	"github.com/hupe1980/saltsearch/stats"
)

// MetricsCollector defines an interface for collecting benchmark metrics.
// Implement this interface to integrate with monitoring systems;
// telemetry.Collector is the Prometheus implementation.
type MetricsCollector interface {
	// RecordTrial is called after every timed search, outside the timed
	// region.
	RecordTrial(kind stats.Kind, workers, chunkSize int, trial experiment.TrialResult)

	// RecordRun is called once per reduced configuration.
	RecordRun(kind stats.Kind, s stats.RunStatistics)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrial(stats.Kind, int, int, experiment.TrialResult) {}
func (NoopMetricsCollector) RecordRun(stats.Kind, stats.RunStatistics)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrialCount       atomic.Int64
	TrialFound       atomic.Int64
	TrialMismatches  atomic.Int64
	TrialTotalNanos  atomic.Int64
	SequentialTrials atomic.Int64
	ParallelTrials   atomic.Int64
	RunCount         atomic.Int64
	NonFiniteRuns    atomic.Int64
	bestSpeedupBits  atomic.Uint64
}

// RecordTrial implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrial(kind stats.Kind, _, _ int, trial experiment.TrialResult) {
	b.TrialCount.Add(1)
	b.TrialTotalNanos.Add(trial.Elapsed.Nanoseconds())
	if trial.Found {
		b.TrialFound.Add(1)
	}
	if trial.Mismatch {
		b.TrialMismatches.Add(1)
	}
	switch kind {
	case stats.KindSequential:
		b.SequentialTrials.Add(1)
	case stats.KindParallel:
		b.ParallelTrials.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(kind stats.Kind, s stats.RunStatistics) {
	b.RunCount.Add(1)
	if !s.Finite() {
		b.NonFiniteRuns.Add(1)
		return
	}
	if kind != stats.KindParallel {
		return
	}
	for {
		old := b.bestSpeedupBits.Load()
		if s.Speedup <= math.Float64frombits(old) {
			return
		}
		if b.bestSpeedupBits.CompareAndSwap(old, math.Float64bits(s.Speedup)) {
			return
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrialCount:       b.TrialCount.Load(),
		TrialFound:       b.TrialFound.Load(),
		TrialMismatches:  b.TrialMismatches.Load(),
		TrialAvgNanos:    b.getAvgTrialNanos(),
		SequentialTrials: b.SequentialTrials.Load(),
		ParallelTrials:   b.ParallelTrials.Load(),
		RunCount:         b.RunCount.Load(),
		NonFiniteRuns:    b.NonFiniteRuns.Load(),
		BestSpeedup:      math.Float64frombits(b.bestSpeedupBits.Load()),
	}
}

func (b *BasicMetricsCollector) getAvgTrialNanos() int64 {
	count := b.TrialCount.Load()
	if count == 0 {
		return 0
	}
	return b.TrialTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrialCount       int64
	TrialFound       int64
	TrialMismatches  int64
	TrialAvgNanos    int64
	SequentialTrials int64
	ParallelTrials   int64
	RunCount         int64
	NonFiniteRuns    int64
	BestSpeedup      float64
}
