// Package stats reduces per-trial timings into summary statistics and keeps
// the ordered collection of results of one benchmark run.
//
// Times are seconds as float64, matching the persisted report.
package stats

import (
	"errors"
	"math"
)

// ErrEmptySamples is returned by Reduce for an empty timing array.
var ErrEmptySamples = errors.New("stats: no samples")

// RunStatistics summarizes the trials of one (workers, chunk size)
// configuration.
type RunStatistics struct {
	Workers   int
	ChunkSize int

	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// Speedup and Efficiency are zero unless a finite, positive reference
	// sequential mean was available.
	Speedup    float64
	Efficiency float64

	TargetPosition int
	ListSize       int
}

// Reduce computes the statistics of samples.
//
// StdDev is the population standard deviation. Speedup is refMean/Mean when
// both are finite and positive; Efficiency is Speedup/workers when workers is
// positive. Non-finite samples are not rejected here: they surface as
// non-finite fields, which Finite reports.
func Reduce(samples []float64, workers, chunkSize int, refMean float64, targetPosition, listSize int) (RunStatistics, error) {
	if len(samples) == 0 {
		return RunStatistics{}, ErrEmptySamples
	}

	s := RunStatistics{
		Workers:        workers,
		ChunkSize:      chunkSize,
		Min:            samples[0],
		Max:            samples[0],
		TargetPosition: targetPosition,
		ListSize:       listSize,
	}

	var sum float64
	for _, v := range samples {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	n := float64(len(samples))
	s.Mean = sum / n

	var sq float64
	for _, v := range samples {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / n)

	s.Speedup = Speedup(refMean, s.Mean)
	s.Efficiency = Efficiency(s.Speedup, workers)

	return s, nil
}

// Speedup returns ref/mean, or 0 unless both are finite and positive.
func Speedup(ref, mean float64) float64 {
	if !positive(ref) || !positive(mean) {
		return 0
	}
	return ref / mean
}

// Efficiency returns speedup/workers, or 0 for non-positive workers.
func Efficiency(speedup float64, workers int) float64 {
	if workers <= 0 {
		return 0
	}
	return speedup / float64(workers)
}

// Finite reports whether every float field is finite.
func (s RunStatistics) Finite() bool {
	for _, v := range [...]float64{s.Min, s.Max, s.Mean, s.StdDev, s.Speedup, s.Efficiency} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
