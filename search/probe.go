package search

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Probe observes the indices evaluated by a parallel search.
type Probe interface {
	Visit(worker, index int)
}

// CoverageProbe records which indices were fingerprinted and how often.
//
// It is meant for verification runs and tests: the mutex it takes on every
// visit serializes the workers and distorts timings.
type CoverageProbe struct {
	mu       sync.Mutex
	seen     *roaring.Bitmap
	visits   uint64
	repeated uint64
	workers  map[int]uint64
}

// NewCoverageProbe returns an empty probe.
func NewCoverageProbe() *CoverageProbe {
	return &CoverageProbe{
		seen:    roaring.New(),
		workers: make(map[int]uint64),
	}
}

// Visit implements Probe.
func (p *CoverageProbe) Visit(worker, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.visits++
	p.workers[worker]++
	if !p.seen.CheckedAdd(uint32(index)) {
		p.repeated++
	}
}

// Coverage is a snapshot of a CoverageProbe.
type Coverage struct {
	// Distinct is the number of different indices evaluated.
	Distinct uint64
	// Visits is the total number of evaluations.
	Visits uint64
	// Repeated counts evaluations of an index that had already been seen.
	Repeated uint64
	// ActiveWorkers is the number of workers that evaluated at least one index.
	ActiveWorkers int
}

// Snapshot returns the current counters.
func (p *CoverageProbe) Snapshot() Coverage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Coverage{
		Distinct:      p.seen.GetCardinality(),
		Visits:        p.visits,
		Repeated:      p.repeated,
		ActiveWorkers: len(p.workers),
	}
}

// Contains reports whether index was evaluated.
func (p *CoverageProbe) Contains(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.seen.Contains(uint32(index))
}

// Beyond counts evaluated indices greater than index. After a match at index
// it bounds the work done past the winner.
func (p *CoverageProbe) Beyond(index int) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.seen.GetCardinality() - p.seen.Rank(uint32(index))
}

// Reset clears the probe for reuse.
func (p *CoverageProbe) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seen.Clear()
	p.visits = 0
	p.repeated = 0
	clear(p.workers)
}
