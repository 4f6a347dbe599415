// Package telemetry exports benchmark measurements as Prometheus metrics.
//
// A Collector owns its registry, so several runs in one process never
// collide. Batch runs write the registry to a node-exporter textfile.
package telemetry

import (
	"strconv"

	"github.com/hupe1980/saltsearch/experiment"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "saltsearch"

// Collector records trials and reduced configurations.
// It satisfies experiment.Observer.
type Collector struct {
	registry *prometheus.Registry

	trialSeconds *prometheus.HistogramVec
	trials       *prometheus.CounterVec
	mismatches   prometheus.Counter
	meanSeconds  *prometheus.GaugeVec
	speedup      *prometheus.GaugeVec
	efficiency   *prometheus.GaugeVec
}

var _ experiment.Observer = (*Collector)(nil)

// NewCollector registers the benchmark metrics under namespace.
func NewCollector(namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	r := prometheus.NewRegistry()
	config := []string{"kind", "workers", "chunk_size"}

	c := &Collector{
		registry: r,
		trialSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_duration_seconds",
			Help:      "wall-clock time of one timed search",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, config),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "number of timed searches",
		}, []string{"kind", "found"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_failures_total",
			Help:      "trials whose outcome contradicted the target placement",
		}),
		meanSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_duration_seconds",
			Help:      "mean trial time of a configuration",
		}, config),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speedup_ratio",
			Help:      "sequential mean over configuration mean",
		}, config),
		efficiency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "efficiency_ratio",
			Help:      "speedup per worker",
		}, config),
	}

	for _, m := range []prometheus.Collector{
		c.trialSeconds,
		c.trials,
		c.mismatches,
		c.meanSeconds,
		c.speedup,
		c.efficiency,
	} {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registry returns the registry holding the benchmark metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordTrial implements experiment.Observer.
func (c *Collector) RecordTrial(kind stats.Kind, workers, chunkSize int, trial experiment.TrialResult) {
	c.trialSeconds.WithLabelValues(labels(kind, workers, chunkSize)...).Observe(trial.Elapsed.Seconds())
	c.trials.WithLabelValues(string(kind), strconv.FormatBool(trial.Found)).Inc()
	if trial.Mismatch {
		c.mismatches.Inc()
	}
}

// RecordRun implements experiment.Observer.
func (c *Collector) RecordRun(kind stats.Kind, s stats.RunStatistics) {
	l := labels(kind, s.Workers, s.ChunkSize)
	c.meanSeconds.WithLabelValues(l...).Set(s.Mean)
	c.speedup.WithLabelValues(l...).Set(s.Speedup)
	c.efficiency.WithLabelValues(l...).Set(s.Efficiency)
}

// WriteTextfile writes the current metrics to path in the text exposition
// format, atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func labels(kind stats.Kind, workers, chunkSize int) []string {
	return []string{string(kind), strconv.Itoa(workers), strconv.Itoa(chunkSize)}
}

