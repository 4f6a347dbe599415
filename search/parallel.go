package search

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/saltsearch/digest"
	"golang.org/x/sync/errgroup"
)

// Option configures a parallel search.
type Option func(*options)

type options struct {
	probe Probe
}

// WithProbe reports every evaluated index to p.
// p must be safe for concurrent use.
func WithProbe(p Probe) Option {
	return func(o *options) {
		o.probe = p
	}
}

// Parallel searches candidates with workers goroutines.
//
// The index range is cut into contiguous chunks of chunkSize indices which
// workers claim dynamically: a worker that finishes a chunk takes the next
// unclaimed one. Workers poll a shared stop flag before every fingerprint and
// stop once a match has been published, but fingerprints already in flight run
// to completion.
//
// At most one worker publishes a result. If several candidates match, the one
// returned belongs to whichever worker reached the result slot first, which is
// not necessarily the lowest index.
//
// Values of workers or chunkSize below 1 are treated as 1. The goroutines are
// started and joined within the call.
func Parallel(fp digest.Fingerprinter, target digest.Token, salt digest.Salt, candidates []string, workers, chunkSize int, optFns ...Option) Result {
	n := len(candidates)
	if n == 0 {
		return NotFound
	}
	if workers < 1 {
		workers = 1
	}
	if chunkSize < 1 {
		chunkSize = 1
	}

	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	var (
		stop   Canceler
		slot   resultSlot
		cursor atomic.Int64
	)
	chunks := int64((n + chunkSize - 1) / chunkSize)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for !stop.Done() {
				c := cursor.Add(1) - 1
				if c >= chunks {
					return nil
				}
				lo := int(c) * chunkSize
				hi := min(lo+chunkSize, n)

				for i := lo; i < hi; i++ {
					if stop.Done() {
						return nil
					}
					if o.probe != nil {
						o.probe.Visit(w, i)
					}
					if fp.Fingerprint(candidates[i], salt) == target {
						slot.settle(Result{Candidate: candidates[i], Index: i, Found: true}, &stop)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return slot.result()
}

// resultSlot is the only state workers write to. The settled flag is
// re-checked under the lock so a second matching worker cannot overwrite the
// first winner.
type resultSlot struct {
	mu      sync.Mutex
	settled bool
	res     Result
}

func (s *resultSlot) settle(r Result, stop *Canceler) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		return false
	}
	s.settled = true
	s.res = r
	stop.Cancel()
	return true
}

func (s *resultSlot) result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settled {
		return NotFound
	}
	return s.res
}
