// Package search locates the candidate whose fingerprint equals a target
// token, either on the calling goroutine or across a fixed set of workers.
//
// Not finding the target is a normal outcome, reported through NotFound rather
// than an error. Both variants treat an empty candidate list as valid input.
package search

import (
	"github.com/hupe1980/saltsearch/digest"
)

// Result is the outcome of a search.
type Result struct {
	// Candidate is the matching candidate. Empty when Found is false.
	Candidate string
	// Index is the position of Candidate in the searched list, or -1.
	Index int
	// Found reports whether a match was located.
	Found bool
}

// NotFound is returned when no candidate matches.
var NotFound = Result{Index: -1}

// Sequential scans candidates in order and returns the first one whose
// fingerprint equals target.
func Sequential(fp digest.Fingerprinter, target digest.Token, salt digest.Salt, candidates []string) Result {
	for i, c := range candidates {
		if fp.Fingerprint(c, salt) == target {
			return Result{Candidate: c, Index: i, Found: true}
		}
	}
	return NotFound
}
