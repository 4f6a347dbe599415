package saltsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/saltsearch/blobstore"
	"github.com/hupe1980/saltsearch/experiment"
	"github.com/hupe1980/saltsearch/report"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/hupe1980/saltsearch/wordlist"
)

// Config is the benchmark configuration.
type Config = experiment.Config

// DefaultConfig returns the reference benchmark setup.
func DefaultConfig() Config { return experiment.DefaultConfig() }

// LoadConfig reads a YAML configuration over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg, err := experiment.LoadConfig(path)
	return cfg, translateError(err)
}

// Benchmark ties a configuration to its collaborators.
type Benchmark struct {
	cfg    Config
	opts   options
	format report.Format
}

// New validates cfg and returns a Benchmark.
func New(cfg Config, optFns ...Option) (*Benchmark, error) {
	opts := applyOptions(optFns)
	if opts.evictCaches != nil {
		cfg.EvictCaches = *opts.evictCaches
	}

	if err := cfg.Validate(); err != nil {
		return nil, translateError(err)
	}
	format, ok := report.ByName(cfg.Format)
	if !ok {
		return nil, &ErrInvalidConfig{Field: "format", Value: cfg.Format, cause: ErrUnknownFormat}
	}

	return &Benchmark{cfg: cfg, opts: opts, format: format}, nil
}

// Config returns the effective configuration.
func (b *Benchmark) Config() Config { return b.cfg }

// LoadCandidates reads the candidate list from store.
//
// When both Wordlist and Filtered are configured, the raw wordlist is first
// filtered into Filtered unless that blob already exists, and the candidates
// come from Filtered. ListSize caps the number of candidates.
func (b *Benchmark) LoadCandidates(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	opts := wordlist.LoadOptions{
		Limit:     b.cfg.ListSize,
		Logger:    b.opts.logger.Logger,
		Resources: b.opts.resources,
	}

	name := b.cfg.Wordlist
	if b.cfg.Filtered != "" {
		if b.cfg.Wordlist != "" {
			if _, err := wordlist.FilterStore(ctx, store, b.cfg.Wordlist, b.cfg.Filtered, b.opts.policy, opts); err != nil {
				b.opts.logger.LogLoad(ctx, b.cfg.Wordlist, 0, err)
				return nil, err
			}
		}
		name = b.cfg.Filtered
	}

	candidates, err := wordlist.Load(ctx, store, name, opts)
	b.opts.logger.LogLoad(ctx, name, len(candidates), err)
	return candidates, err
}

// Run benchmarks the search over candidates and returns the statistics of
// every configuration, sequential first.
func (b *Benchmark) Run(ctx context.Context, candidates []string) (*stats.Collection, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	d, err := experiment.NewDriver(b.cfg, candidates, func(o *experiment.Options) {
		o.Logger = b.opts.logger.Logger
		o.Hints = b.opts.hints
		o.Observer = b.opts.metricsCollector
		o.Fingerprinter = b.opts.fingerprinter
		o.Verify = b.opts.verify
	})
	if err != nil {
		return nil, translateError(err)
	}

	start := time.Now()
	coll, err := d.Run(ctx)
	if err != nil {
		b.opts.logger.LogRun(ctx, coll.Len(), err)
		return coll, fmt.Errorf("benchmark interrupted after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	b.opts.logger.LogRun(ctx, coll.Len(), nil)
	return coll, nil
}

// Publish writes the report of coll to store under the configured name.
func (b *Benchmark) Publish(ctx context.Context, store blobstore.BlobStore, coll *stats.Collection) error {
	err := report.Publish(ctx, store, b.cfg.Report, coll, b.format)
	b.opts.logger.LogPublish(ctx, b.cfg.Report, b.format.Name(), len(report.Rows(coll)), err)
	return err
}
