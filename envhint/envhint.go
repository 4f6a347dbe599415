// Package envhint asks the environment for quieter measurements: CPU
// affinity, scheduling priority and a cold cache before each timed trial.
//
// Every hint is best effort. A hint that cannot be honored returns an error
// wrapping ErrUnavailable; callers log it as a precision caveat and carry on.
// Correctness of a benchmark never depends on a hint.
package envhint

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/hupe1980/saltsearch/internal/mem"
)

// ErrUnavailable is wrapped by every error a hint reports.
var ErrUnavailable = errors.New("envhint: unavailable")

// Hints is the capability injected into the experiment driver.
type Hints interface {
	// Apply narrows the process to workers CPUs and raises its priority.
	// restore undoes whatever was applied and is never nil, even when err
	// is not.
	Apply(workers int) (restore func(), err error)

	// EvictCaches pushes the working set out of the processor caches.
	EvictCaches() error
}

// Noop honors no hint and reports no error.
type Noop struct{}

// Apply implements Hints.
func (Noop) Apply(int) (func(), error) { return func() {}, nil }

// EvictCaches implements Hints.
func (Noop) EvictCaches() error { return nil }

// DefaultScratchSize exceeds the last-level cache of common server parts.
const DefaultScratchSize = 64 << 20

// Options configures a System.
type Options struct {
	// PinAffinity enables CPU pinning and GOMAXPROCS adjustment.
	PinAffinity bool
	// RaisePriority lowers the nice value of every thread of the process.
	RaisePriority bool
	// Nice is the nice value to request. Defaults to -10.
	Nice int
	// ScratchSize is the size of the eviction buffer. Zero disables
	// eviction.
	ScratchSize int
}

// System applies hints to the running process. The affinity mask and nice
// value in effect when it is created are what every restore returns to.
type System struct {
	opts    Options
	base    baseline
	scratch []byte
}

// NewSystem returns a System configured by optFns.
func NewSystem(optFns ...func(o *Options)) *System {
	opts := Options{
		PinAffinity:   true,
		RaisePriority: true,
		Nice:          -10,
		ScratchSize:   DefaultScratchSize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &System{opts: opts, base: captureBaseline()}
	if opts.ScratchSize > 0 {
		s.scratch = mem.AllocAligned(opts.ScratchSize)
	}
	return s
}

// Apply implements Hints.
func (s *System) Apply(workers int) (func(), error) {
	var (
		undo []func()
		errs []error
	)

	if s.opts.PinAffinity {
		prev := runtime.GOMAXPROCS(max(workers, 1))
		undo = append(undo, func() { runtime.GOMAXPROCS(prev) })

		restore, err := s.base.pin(workers)
		if err != nil {
			errs = append(errs, err)
		}
		undo = append(undo, restore)
	}

	if s.opts.RaisePriority {
		restore, err := s.base.prioritize(s.opts.Nice)
		if err != nil {
			errs = append(errs, err)
		}
		undo = append(undo, restore)
	}

	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}, errors.Join(errs...)
}

// sink keeps the eviction reads observable.
var sink atomic.Uint64

// EvictCaches implements Hints by writing and reading every cache line of
// the scratch buffer.
func (s *System) EvictCaches() error {
	if len(s.scratch) == 0 {
		return fmt.Errorf("%w: cache eviction disabled", ErrUnavailable)
	}

	var acc uint64
	for i := 0; i < len(s.scratch); i += mem.CacheLine {
		s.scratch[i]++
		acc += uint64(s.scratch[i])
	}
	sink.Add(acc)
	return nil
}
