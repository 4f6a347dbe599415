// Package saltsearch benchmarks locating a known secret in a list of
// candidate strings by comparing keyed fingerprints, first on one goroutine
// and then across a fixed set of workers for several chunk sizes.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//
//	b, _ := saltsearch.New(saltsearch.DefaultConfig(),
//	    saltsearch.WithLogLevel(slog.LevelInfo),
//	    saltsearch.WithEnvironmentHints(envhint.NewSystem()),
//	)
//	candidates, _ := b.LoadCandidates(ctx, store)  // filters rockyou.txt once
//	coll, _ := b.Run(ctx, candidates)
//	_ = b.Publish(ctx, store, coll)                // password_search_results.csv
//
// # Measurement Model
//
// Every configuration runs Executions trials. Trial i splices the target into
// the list at an evenly spaced position, times one search with the monotonic
// clock and removes the target again. The last trial leaves the target out so
// the search scans the whole list. Before the first trial every available
// worker computes one throwaway fingerprint.
//
// Speedup is the sequential mean over a configuration's mean; efficiency is
// speedup per worker. Rows with a non-finite value are left out of the report.
//
// # Packages
//
//   - digest: the keyed fingerprint functions (DES, BLAKE2b)
//   - search: sequential and parallel search with early termination
//   - experiment: placement, repetition, warm-up and timing
//   - stats: reduction of timings into statistics
//   - report: CSV and JSON rendering and publication
//   - wordlist: loading and filtering of candidate lists
//   - envhint: CPU pinning, priority and cache eviction
//   - blobstore: local, in-memory, S3 and MinIO storage
//   - telemetry: Prometheus export
//   - resource: memory and read-rate limits for wordlist loading
package saltsearch
