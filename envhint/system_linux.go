//go:build linux

package envhint

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// maxCPUs is CPU_SETSIZE.
const maxCPUs = 1024

// threadPasses bounds how often the thread list is re-read while a setting
// is applied. Threads spawned by a thread that was not updated yet inherit
// its old setting, so a second pass picks them up.
const threadPasses = 3

// baseline is the process state captured when a System is created.
type baseline struct {
	mask    unix.CPUSet
	maskErr error

	nice    int
	niceErr error
}

// captureBaseline records the union of the affinity masks of all threads and
// the nice value of the calling thread.
func captureBaseline() baseline {
	var b baseline

	if err := unix.SchedGetaffinity(0, &b.mask); err != nil {
		b.maskErr = fmt.Errorf("%w: get affinity: %w", ErrUnavailable, err)
	} else {
		for _, tid := range threads() {
			var set unix.CPUSet
			if unix.SchedGetaffinity(tid, &set) != nil {
				continue
			}
			for cpu := 0; cpu < maxCPUs; cpu++ {
				if set.IsSet(cpu) {
					b.mask.Set(cpu)
				}
			}
		}
	}

	// The raw syscall reports 20-nice.
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		b.niceErr = fmt.Errorf("%w: get priority: %w", ErrUnavailable, err)
	} else {
		b.nice = 20 - raw
	}
	return b
}

// narrow returns the first workers CPUs of base and how many were picked.
func narrow(base unix.CPUSet, workers int) (unix.CPUSet, int) {
	workers = max(workers, 1)

	var next unix.CPUSet
	picked := 0
	for cpu := 0; cpu < maxCPUs && picked < workers; cpu++ {
		if base.IsSet(cpu) {
			next.Set(cpu)
			picked++
		}
	}
	return next, picked
}

// pin restricts every thread of the process to the first workers CPUs of the
// baseline mask. The returned func puts every thread alive at that point,
// including threads spawned while pinned, back on the baseline mask.
func (b *baseline) pin(workers int) (func(), error) {
	if b.maskErr != nil {
		return func() {}, b.maskErr
	}
	workers = max(workers, 1)

	next, picked := narrow(b.mask, workers)
	restore := func() {
		_ = eachThread(func(tid int) error { return unix.SchedSetaffinity(tid, &b.mask) })
	}

	if err := eachThread(func(tid int) error { return unix.SchedSetaffinity(tid, &next) }); err != nil {
		restore()
		return func() {}, fmt.Errorf("%w: set affinity: %w", ErrUnavailable, err)
	}

	if picked < workers {
		return restore, fmt.Errorf("%w: only %d of %d CPUs available", ErrUnavailable, picked, workers)
	}
	return restore, nil
}

// prioritize sets the nice value of every thread. Linux keeps a nice value
// per thread, so the process-wide call would only reach the caller.
func (b *baseline) prioritize(nice int) (func(), error) {
	if b.niceErr != nil {
		return func() {}, b.niceErr
	}

	restore := func() {
		_ = eachThread(func(tid int) error { return unix.Setpriority(unix.PRIO_PROCESS, tid, b.nice) })
	}

	if err := eachThread(func(tid int) error { return unix.Setpriority(unix.PRIO_PROCESS, tid, nice) }); err != nil {
		restore()
		return func() {}, fmt.Errorf("%w: set priority %d: %w", ErrUnavailable, nice, err)
	}
	return restore, nil
}

// eachThread calls fn once for every thread of the process, re-reading the
// thread list until no new thread shows up. Threads that exit in between
// are skipped.
func eachThread(fn func(tid int) error) error {
	seen := make(map[int]struct{})
	var errs []error

	for pass := 0; pass < threadPasses; pass++ {
		fresh := 0
		for _, tid := range threads() {
			if _, ok := seen[tid]; ok {
				continue
			}
			seen[tid] = struct{}{}
			fresh++

			if err := fn(tid); err != nil && !errors.Is(err, unix.ESRCH) {
				errs = append(errs, fmt.Errorf("thread %d: %w", tid, err))
			}
		}
		if fresh == 0 {
			break
		}
	}
	return errors.Join(errs...)
}

// threads lists the thread ids of the process.
func threads() []int {
	entries, err := os.ReadDir("/proc/self/task")
	if err != nil {
		return []int{0}
	}

	tids := make([]int, 0, len(entries))
	for _, e := range entries {
		if tid, err := strconv.Atoi(e.Name()); err == nil {
			tids = append(tids, tid)
		}
	}
	if len(tids) == 0 {
		return []int{0}
	}
	return tids
}
