//go:build linux

package envhint

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// lockedThreads parks n goroutines on their own OS threads so work can be
// run on threads that exist only while a hint is in effect.
type lockedThreads struct {
	work []chan func()
	wg   sync.WaitGroup
}

func startLockedThreads(t *testing.T, n int) *lockedThreads {
	t.Helper()

	lt := &lockedThreads{work: make([]chan func(), n)}
	ready := make(chan struct{})
	for i := range lt.work {
		ch := make(chan func())
		lt.work[i] = ch
		lt.wg.Add(1)
		go func() {
			defer lt.wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			ready <- struct{}{}
			for fn := range ch {
				fn()
			}
		}()
	}
	for range lt.work {
		<-ready
	}
	t.Cleanup(lt.stop)
	return lt
}

// each runs fn on every locked thread, one after the other.
func (lt *lockedThreads) each(fn func()) {
	for _, ch := range lt.work {
		done := make(chan struct{})
		ch <- func() {
			defer close(done)
			fn()
		}
		<-done
	}
}

func (lt *lockedThreads) stop() {
	for _, ch := range lt.work {
		if ch != nil {
			close(ch)
		}
	}
	lt.work = nil
	lt.wg.Wait()
}

func cpuSet(cpus ...int) unix.CPUSet {
	var set unix.CPUSet
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	return set
}

func TestNarrow(t *testing.T) {
	base := cpuSet(1, 3, 5, 7, 9)

	next, picked := narrow(base, 2)
	assert.Equal(t, 2, picked)
	assert.Equal(t, cpuSet(1, 3), next)

	next, picked = narrow(base, 16)
	assert.Equal(t, 5, picked)
	assert.Equal(t, base, next)

	next, picked = narrow(base, 0)
	assert.Equal(t, 1, picked)
	assert.Equal(t, cpuSet(1), next)
}

func pinnedSystem(t *testing.T, workers int) (*System, func()) {
	t.Helper()

	s := NewSystem(func(o *Options) {
		o.RaisePriority = false
		o.ScratchSize = 0
	})
	restore, err := s.Apply(workers)
	if err != nil {
		restore()
		t.Skipf("affinity not available: %v", err)
	}
	return s, restore
}

func TestSystem_RestoreReachesThreadsSpawnedWhilePinned(t *testing.T) {
	s, restore := pinnedSystem(t, 1)

	// Locked goroutines that block force the runtime to start new threads,
	// which inherit the narrowed mask.
	lt := startLockedThreads(t, 4)
	restore()

	lt.each(func() {
		var set unix.CPUSet
		if assert.NoError(t, unix.SchedGetaffinity(0, &set)) {
			assert.Equal(t, s.base.mask, set, "thread %d", unix.Gettid())
		}
	})

	for _, tid := range threads() {
		var set unix.CPUSet
		if unix.SchedGetaffinity(tid, &set) != nil {
			continue
		}
		assert.Equal(t, s.base.mask, set, "thread %d", tid)
	}
}

func TestSystem_RepinStartsFromBaseline(t *testing.T) {
	s, restore := pinnedSystem(t, 1)
	defer restore()

	all := s.base.mask.Count()

	// The second pin runs on a narrowed thread; it must still see every
	// CPU the process started with.
	var (
		restoreAll func()
		err        error
	)
	lt := startLockedThreads(t, 1)
	lt.each(func() { restoreAll, err = s.base.pin(all) })
	require.NoError(t, err)

	var set unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &set))
	assert.Equal(t, all, set.Count())

	restoreAll()
}

func TestSystem_PriorityReachesEveryThread(t *testing.T) {
	s := NewSystem(func(o *Options) {
		o.PinAffinity = false
		o.ScratchSize = 0
	})
	restore, err := s.Apply(2)
	if err != nil {
		restore()
		t.Skipf("priority not available: %v", err)
	}

	lt := startLockedThreads(t, 2)
	niceOf := func(tid int) (int, bool) {
		raw, err := unix.Getpriority(unix.PRIO_PROCESS, tid)
		return 20 - raw, err == nil
	}

	for _, tid := range threads() {
		if nice, ok := niceOf(tid); ok {
			assert.Equal(t, s.opts.Nice, nice, "thread %d", tid)
		}
	}

	restore()
	lt.each(func() {
		nice, ok := niceOf(0)
		if ok {
			assert.Equal(t, s.base.nice, nice, "thread %d", unix.Gettid())
		}
	})
	for _, tid := range threads() {
		if nice, ok := niceOf(tid); ok {
			assert.Equal(t, s.base.nice, nice, "thread %d", tid)
		}
	}
}
