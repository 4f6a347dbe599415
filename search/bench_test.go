package search

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/testutil"
)

// Benchmarks follow the same methodology as the experiment driver:
//
//  1. warm up so key derivation and caches are not charged to b.N
//  2. GC before measuring
//  3. one full search per iteration, with the target in the middle of the list
//
// Run with:
//
//	go test -run='^$' -bench=. -benchtime=20x ./search

const benchListSize = 50_000

// warmupIterations is the number of untimed searches before measurement.
const warmupIterations = 3

func benchLoop(b *testing.B, fn func()) {
	b.Helper()

	for i := 0; i < warmupIterations; i++ {
		fn()
	}
	runtime.GC()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fn()
	}
}

func benchFixture(b *testing.B) (*digest.DES, digest.Token, []string) {
	b.Helper()

	fp := digest.NewDES()
	list := testutil.NewRNG(42).Candidates(benchListSize, 8)
	return fp, fp.Fingerprint(list[benchListSize/2], testSalt), list
}

func BenchmarkSequential(b *testing.B) {
	fp, target, list := benchFixture(b)

	benchLoop(b, func() {
		_ = Sequential(fp, target, testSalt, list)
	})
}

func BenchmarkParallel(b *testing.B) {
	fp, target, list := benchFixture(b)

	for _, workers := range []int{1, 2, 4, 8} {
		for _, chunk := range []int{500, 1000, 2000, 4000} {
			b.Run(fmt.Sprintf("workers=%d/chunk=%d", workers, chunk), func(b *testing.B) {
				benchLoop(b, func() {
					_ = Parallel(fp, target, testSalt, list, workers, chunk)
				})
			})
		}
	}
}

func BenchmarkFingerprint(b *testing.B) {
	for _, name := range []string{"des", "blake2b"} {
		fp, _ := digest.ByName(name)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = fp.Fingerprint("ParaComp", testSalt)
			}
		})
	}
}
