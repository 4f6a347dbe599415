package stats

import (
	"slices"
	"sync"
)

// Kind discriminates sequential from parallel rows.
type Kind string

const (
	// KindSequential tags the single-goroutine reference configuration.
	KindSequential Kind = "sequential"
	// KindParallel tags worker-pool configurations.
	KindParallel Kind = "parallel"
)

// Entry is one appended result.
type Entry struct {
	Kind  Kind
	Stats RunStatistics
}

// Collection is the ordered, append-only set of results of a run.
// It is safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds an entry. Entries cannot be modified afterwards.
func (c *Collection) Append(kind Kind, s RunStatistics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, Entry{Kind: kind, Stats: s})
}

// Entries returns a copy of all entries in insertion order.
func (c *Collection) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Reference returns the mean of the first sequential entry.
func (c *Collection) Reference() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.Kind == KindSequential {
			return e.Stats.Mean, true
		}
	}
	return 0, false
}

// Best returns the parallel entry with the highest speedup.
func (c *Collection) Best() (RunStatistics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		best RunStatistics
		ok   bool
	)
	for _, e := range c.entries {
		if e.Kind != KindParallel || !e.Stats.Finite() {
			continue
		}
		if !ok || e.Stats.Speedup > best.Speedup {
			best, ok = e.Stats, true
		}
	}
	return best, ok
}
