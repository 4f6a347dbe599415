package saltsearch

import (
	"log/slog"

	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/envhint"
	"github.com/hupe1980/saltsearch/resource"
	"github.com/hupe1980/saltsearch/wordlist"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	fingerprinter    digest.Fingerprinter
	hints            envhint.Hints
	evictCaches      *bool
	verify           bool
	policy           wordlist.Policy
	resources        *resource.Controller
}

// Option configures a Benchmark.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for trials and
// configurations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &saltsearch.BasicMetricsCollector{}
//	b, _ := saltsearch.New(cfg, saltsearch.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Trials: %d, best speedup: %.2f\n", stats.TrialCount, stats.BestSpeedup)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithFingerprinter replaces the fingerprint function named by the
// configuration.
func WithFingerprinter(fp digest.Fingerprinter) Option {
	return func(o *options) {
		o.fingerprinter = fp
	}
}

// WithEnvironmentHints injects the noise-control capability. The default,
// envhint.Noop, honors nothing; envhint.NewSystem pins CPUs, raises priority
// and evicts caches.
func WithEnvironmentHints(h envhint.Hints) Option {
	return func(o *options) {
		if h == nil {
			h = envhint.Noop{}
		}
		o.hints = h
	}
}

// WithCacheEviction overrides the evict_caches configuration field.
func WithCacheEviction(enabled bool) Option {
	return func(o *options) {
		o.evictCaches = &enabled
	}
}

// WithVerify checks every trial outcome against the placement of the target.
// Verification adds work to parallel trials, so keep it off for published
// numbers.
func WithVerify(enabled bool) Option {
	return func(o *options) {
		o.verify = enabled
	}
}

// WithFilterPolicy sets the policy used when filtering a raw wordlist.
// The default is wordlist.DefaultPolicy.
func WithFilterPolicy(p wordlist.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithResources bounds the memory and read rate spent on loading candidate
// lists. Pass nil for no limits.
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		hints:            envhint.Noop{},
		policy:           wordlist.DefaultPolicy,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
