package saltsearch_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/hupe1980/saltsearch"
	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/search"
	"github.com/hupe1980/saltsearch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settledGoroutines waits briefly for exiting goroutines to be reaped.
func settledGoroutines(baseline int) int {
	n := runtime.NumGoroutine()
	for i := 0; i < 50 && n > baseline; i++ {
		time.Sleep(10 * time.Millisecond)
		n = runtime.NumGoroutine()
	}
	return n
}

// TestNoGoroutineLeaks verifies that parallel searches and whole runs join
// every goroutine they start, whether or not the target is found.
func TestNoGoroutineLeaks(t *testing.T) {
	fp := digest.NewDES()
	salt := digest.SaltFromString("Leonardo8")
	list := testutil.NewRNG(31).Candidates(5_000, 8)

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "parallel search, early match",
			run: func(t *testing.T) {
				target := fp.Fingerprint(list[10], salt)
				require.True(t, search.Parallel(fp, target, salt, list, 8, 16).Found)
			},
		},
		{
			name: "parallel search, full scan",
			run: func(t *testing.T) {
				target := fp.Fingerprint("NOPE0000", salt)
				require.False(t, search.Parallel(fp, target, salt, list, 8, 16).Found)
			},
		},
		{
			name: "benchmark run",
			run: func(t *testing.T) {
				cfg := saltsearch.DefaultConfig()
				cfg.Executions = 2
				cfg.WorkerCounts = []int{4}
				cfg.ChunkSizes = []int{64}
				b, err := saltsearch.New(cfg)
				require.NoError(t, err)
				_, err = b.Run(context.Background(), list[:500])
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime.GC()
			baseline := runtime.NumGoroutine()

			for i := 0; i < 5; i++ {
				tt.run(t)
			}

			assert.LessOrEqual(t, settledGoroutines(baseline), baseline+2)
		})
	}
}
