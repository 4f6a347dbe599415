// Package experiment runs the benchmark: it places the target at controlled
// positions, times repeated sequential and parallel searches and reduces the
// timings into statistics.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/envhint"
	"github.com/hupe1980/saltsearch/search"
	"github.com/hupe1980/saltsearch/stats"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// TrialResult is the outcome of one timed search.
type TrialResult struct {
	Elapsed  time.Duration
	Position int
	Found    bool
	// Mismatch is set in verify mode when the outcome contradicts the
	// placement of the target.
	Mismatch bool
}

// Observer receives every trial and every reduced configuration.
// Implementations must be cheap; they run between timed trials.
type Observer interface {
	RecordTrial(kind stats.Kind, workers, chunkSize int, trial TrialResult)
	RecordRun(kind stats.Kind, s stats.RunStatistics)
}

// NoopObserver discards everything.
type NoopObserver struct{}

func (NoopObserver) RecordTrial(stats.Kind, int, int, TrialResult) {}
func (NoopObserver) RecordRun(stats.Kind, stats.RunStatistics)     {}

// Options configures a Driver.
type Options struct {
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// Hints defaults to envhint.Noop.
	Hints envhint.Hints
	// Observer defaults to NoopObserver.
	Observer Observer
	// Fingerprinter overrides Config.Digest.
	Fingerprinter digest.Fingerprinter
	// Verify checks every outcome against the target placement and records
	// parallel coverage. It perturbs the timings.
	Verify bool
	// ProgressInterval throttles info-level progress records.
	ProgressInterval time.Duration
}

// Driver owns a candidate list and runs trials against it. A Driver is not
// safe for concurrent use; Run serializes callers.
type Driver struct {
	mu sync.Mutex

	cfg    Config
	opts   Options
	logger *slog.Logger

	fp     digest.Fingerprinter
	salt   digest.Salt
	target digest.Token

	list []string
	// present reports whether the target occurs in the list on its own.
	present bool

	progress rate.Sometimes
}

// NewDriver validates cfg and returns a Driver over a private copy of
// candidates.
func NewDriver(cfg Config, candidates []string, optFns ...func(o *Options)) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		Hints:            envhint.Noop{},
		Observer:         NoopObserver{},
		ProgressInterval: 2 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Fingerprinter == nil {
		opts.Fingerprinter, _ = digest.ByName(cfg.Digest)
	}

	// One spare slot so splicing the target never reallocates.
	list := make([]string, len(candidates), len(candidates)+1)
	copy(list, candidates)

	salt := digest.SaltFromString(cfg.Salt)

	return &Driver{
		cfg:      cfg,
		opts:     opts,
		logger:   opts.Logger,
		fp:       opts.Fingerprinter,
		salt:     salt,
		target:   opts.Fingerprinter.Fingerprint(cfg.Target, salt),
		list:     list,
		present:  slices.Contains(candidates, cfg.Target),
		progress: rate.Sometimes{Interval: opts.ProgressInterval},
	}, nil
}

// Candidates returns a copy of the candidate list.
func (d *Driver) Candidates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.list)
}

// Target returns the fingerprint searched for.
func (d *Driver) Target() digest.Token { return d.target }

// Run warms up, times the sequential configuration and then every
// (workers, chunk size) pair, and returns the reduced statistics in that
// order. ctx is checked between trials only.
func (d *Driver) Run(ctx context.Context) (*stats.Collection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll := stats.NewCollection()
	listSize := len(d.list)

	d.logger.InfoContext(ctx, "benchmark started",
		"platform", envhint.Describe(),
		"candidates", listSize,
		"executions", d.cfg.Executions,
		"target", d.target.String(),
	)

	if err := d.warmUp(ctx); err != nil {
		return coll, err
	}

	samples, err := d.configuration(ctx, stats.KindSequential, 1, 0, d.cfg.SequentialHalfStep)
	if err != nil {
		return coll, err
	}
	var ref float64
	if seq, ok := d.reduce(ctx, samples, 1, 0, 0); ok {
		seq.Speedup = stats.Speedup(seq.Mean, seq.Mean)
		seq.Efficiency = stats.Efficiency(seq.Speedup, 1)
		ref = seq.Mean
		d.append(ctx, coll, stats.KindSequential, seq)
	}

	for _, workers := range d.cfg.WorkerCounts {
		for _, chunk := range d.cfg.ChunkSizes {
			samples, err := d.configuration(ctx, stats.KindParallel, workers, chunk, d.cfg.ParallelHalfStep)
			if err != nil {
				return coll, err
			}
			if s, ok := d.reduce(ctx, samples, workers, chunk, ref); ok {
				d.append(ctx, coll, stats.KindParallel, s)
			}
		}
	}

	d.summarize(ctx, coll)
	return coll, nil
}

// warmUp computes one throwaway fingerprint per available worker, all at
// once, so lazy key derivation is not charged to a timed trial.
func (d *Driver) warmUp(ctx context.Context) error {
	n := runtime.GOMAXPROCS(0)
	for _, w := range d.cfg.WorkerCounts {
		n = max(n, w)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_ = d.fp.Fingerprint(d.cfg.Target, d.salt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	attrs := []any{"goroutines", n}
	if c, ok := d.fp.(interface{ Derivations() uint64 }); ok {
		attrs = append(attrs, "key_derivations", c.Derivations())
	}
	d.logger.DebugContext(ctx, "warm-up completed", attrs...)
	return nil
}

// configuration times every trial of one configuration under the
// environment hints and returns the samples in seconds.
func (d *Driver) configuration(ctx context.Context, kind stats.Kind, workers, chunk int, halfStep bool) ([]float64, error) {
	if d.cfg.PinAffinity {
		restore, err := d.opts.Hints.Apply(workers)
		if err != nil {
			d.logger.WarnContext(ctx, "environment hint not honored; timings may be noisier",
				"workers", workers,
				"error", err,
			)
		}
		defer restore()
	}

	positions := Positions(len(d.list), d.cfg.Executions, halfStep)
	samples := make([]float64, 0, len(positions))

	evictWarned := false
	for i, pos := range positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if d.cfg.EvictCaches {
			if err := d.opts.Hints.EvictCaches(); err != nil && !evictWarned {
				evictWarned = true
				d.logger.WarnContext(ctx, "cache eviction not honored; timings may be warmer", "error", err)
			}
		}

		// The final trial leaves the target out so the search scans the
		// whole list.
		tr := d.trial(kind, workers, chunk, pos, i < len(positions)-1)
		samples = append(samples, tr.Elapsed.Seconds())
		d.opts.Observer.RecordTrial(kind, workers, chunk, tr)

		d.logger.DebugContext(ctx, "trial completed",
			"kind", kind,
			"workers", workers,
			"chunk_size", chunk,
			"trial", i+1,
			"position", tr.Position,
			"found", tr.Found,
			"elapsed", tr.Elapsed,
		)
		d.progress.Do(func() {
			d.logger.InfoContext(ctx, "benchmark progress",
				"kind", kind,
				"workers", workers,
				"chunk_size", chunk,
				"trial", i+1,
				"of", len(positions),
			)
		})
	}
	return samples, nil
}

// Trial times one search. When insert is set the target is spliced in at
// pos, clamped to [0, len], and removed again afterwards. The list is
// identical before and after the call.
func (d *Driver) Trial(kind stats.Kind, workers, chunk, pos int, insert bool) TrialResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.trial(kind, workers, chunk, pos, insert)
}

func (d *Driver) trial(kind stats.Kind, workers, chunk, pos int, inserted bool) TrialResult {
	pos = min(max(pos, 0), len(d.list))
	if inserted {
		d.list = slices.Insert(d.list, pos, d.cfg.Target)
	}

	var probe *search.CoverageProbe
	if d.opts.Verify && kind == stats.KindParallel {
		probe = search.NewCoverageProbe()
	}

	start := time.Now()
	res := d.search(kind, workers, chunk, probe)
	elapsed := time.Since(start)

	tr := TrialResult{Elapsed: elapsed, Position: pos, Found: res.Found}
	if d.opts.Verify {
		tr.Mismatch = d.verify(res, pos, inserted, probe)
	}

	if inserted {
		d.list = slices.Delete(d.list, pos, pos+1)
	}
	return tr
}

func (d *Driver) search(kind stats.Kind, workers, chunk int, probe *search.CoverageProbe) search.Result {
	if kind == stats.KindSequential {
		return search.Sequential(d.fp, d.target, d.salt, d.list)
	}
	if probe != nil {
		return search.Parallel(d.fp, d.target, d.salt, d.list, workers, chunk, search.WithProbe(probe))
	}
	return search.Parallel(d.fp, d.target, d.salt, d.list, workers, chunk)
}

// verify reports whether res contradicts the placement. It runs while the
// target is still spliced in.
func (d *Driver) verify(res search.Result, pos int, inserted bool, probe *search.CoverageProbe) bool {
	var reason string
	switch {
	case inserted && !res.Found:
		reason = "inserted target not found"
	case !inserted && res.Found && !d.present:
		reason = "absent target reported found"
	case res.Found && res.Candidate != d.cfg.Target:
		reason = "wrong candidate reported"
	case res.Found && !d.present && res.Index != pos:
		reason = "target reported at wrong index"
	case probe != nil && !res.Found:
		if cov := probe.Snapshot(); cov.Distinct != uint64(len(d.list)) || cov.Repeated != 0 {
			reason = fmt.Sprintf("incomplete scan: %d distinct of %d, %d repeated", cov.Distinct, len(d.list), cov.Repeated)
		}
	}

	if probe != nil {
		cov := probe.Snapshot()
		d.logger.Debug("parallel coverage",
			"position", pos,
			"visits", cov.Visits,
			"beyond_match", probe.Beyond(max(res.Index, 0)),
			"active_workers", cov.ActiveWorkers,
		)
	}

	if reason == "" {
		return false
	}
	d.logger.Error("verification failed",
		"reason", reason,
		"position", pos,
		"inserted", inserted,
		"index", res.Index,
	)
	return true
}

func (d *Driver) reduce(ctx context.Context, samples []float64, workers, chunk int, ref float64) (stats.RunStatistics, bool) {
	listSize := len(d.list)
	s, err := stats.Reduce(samples, workers, chunk, ref, listSize, listSize)
	if err != nil {
		d.logger.WarnContext(ctx, "configuration skipped",
			"workers", workers,
			"chunk_size", chunk,
			"error", err,
		)
		return s, false
	}
	return s, true
}

func (d *Driver) append(ctx context.Context, coll *stats.Collection, kind stats.Kind, s stats.RunStatistics) {
	coll.Append(kind, s)
	d.opts.Observer.RecordRun(kind, s)

	d.logger.InfoContext(ctx, "configuration completed",
		"kind", kind,
		"workers", s.Workers,
		"chunk_size", s.ChunkSize,
		"min", s.Min,
		"max", s.Max,
		"mean", s.Mean,
		"stddev", s.StdDev,
		"speedup", s.Speedup,
		"efficiency", s.Efficiency,
	)
}

func (d *Driver) summarize(ctx context.Context, coll *stats.Collection) {
	for _, e := range coll.Entries() {
		if e.Kind != stats.KindParallel {
			continue
		}
		d.logger.InfoContext(ctx, "speedup",
			"workers", e.Stats.Workers,
			"chunk_size", e.Stats.ChunkSize,
			"speedup", e.Stats.Speedup,
		)
	}
	if best, ok := coll.Best(); ok {
		d.logger.InfoContext(ctx, "best configuration",
			"workers", best.Workers,
			"chunk_size", best.ChunkSize,
			"speedup", best.Speedup,
			"efficiency", best.Efficiency,
		)
	}
}
