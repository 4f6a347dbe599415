// Package testutil provides testing utilities for saltsearch.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for candidate lists
// that satisfy the default wordlist policy.
//
// # Candidate Generation
//
//	rng := testutil.NewRNG(seed)
//	list := rng.Candidates(10_000, 8)     // unique, 8 chars, [a-zA-Z0-9./]
//	target := rng.Absent(list, 8)         // guaranteed not in list
package testutil
