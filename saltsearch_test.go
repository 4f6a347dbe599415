package saltsearch_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/saltsearch"
	"github.com/hupe1980/saltsearch/blobstore"
	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/hupe1980/saltsearch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() saltsearch.Config {
	cfg := saltsearch.DefaultConfig()
	cfg.Executions = 3
	cfg.WorkerCounts = []int{1, 2}
	cfg.ChunkSizes = []int{32}
	cfg.Wordlist = "raw.txt"
	cfg.Filtered = "filtered.txt.zst"
	cfg.Report = "results.csv"
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Executions = 0
	cfg.ChunkSizes = []int{-1}

	_, err := saltsearch.New(cfg)
	require.Error(t, err)

	var ic *saltsearch.ErrInvalidConfig
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, "executions", ic.Field)
	assert.Equal(t, 0, ic.Value)
	assert.Contains(t, err.Error(), "chunk_sizes")
}

func TestNew_UnknownFormat(t *testing.T) {
	cfg := smallConfig()
	cfg.Format = "xml"

	_, err := saltsearch.New(cfg)
	assert.ErrorIs(t, err, saltsearch.ErrUnknownFormat)

	var ic *saltsearch.ErrInvalidConfig
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, "format", ic.Field)
}

func TestNew_CacheEvictionOverride(t *testing.T) {
	b, err := saltsearch.New(smallConfig(), saltsearch.WithCacheEviction(false))
	require.NoError(t, err)
	assert.False(t, b.Config().EvictCaches)
}

func TestRun_NoCandidates(t *testing.T) {
	b, err := saltsearch.New(smallConfig())
	require.NoError(t, err)

	_, err = b.Run(context.Background(), nil)
	assert.ErrorIs(t, err, saltsearch.ErrNoCandidates)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	rng := testutil.NewRNG(21)
	raw := rng.Candidates(300, 8)
	raw = append(raw, "short", "has space", "P@ssw0rd")
	require.NoError(t, store.Put(ctx, "raw.txt", []byte(strings.Join(raw, "\n"))))

	metrics := &saltsearch.BasicMetricsCollector{}
	b, err := saltsearch.New(smallConfig(),
		saltsearch.WithMetricsCollector(metrics),
		saltsearch.WithVerify(true),
	)
	require.NoError(t, err)

	candidates, err := b.LoadCandidates(ctx, store)
	require.NoError(t, err)
	assert.Len(t, candidates, 300)

	exists, err := blobstore.Exists(ctx, store, "filtered.txt.zst")
	require.NoError(t, err)
	assert.True(t, exists)

	coll, err := b.Run(ctx, candidates)
	require.NoError(t, err)
	require.Equal(t, 3, coll.Len())

	ref, ok := coll.Reference()
	require.True(t, ok)
	assert.Positive(t, ref)

	s := metrics.GetStats()
	assert.Equal(t, int64(9), s.TrialCount)
	assert.Equal(t, int64(6), s.TrialFound)
	assert.Zero(t, s.TrialMismatches)
	assert.Equal(t, int64(3), s.SequentialTrials)
	assert.Equal(t, int64(6), s.ParallelTrials)
	assert.Equal(t, int64(3), s.RunCount)
	assert.Positive(t, s.BestSpeedup)

	require.NoError(t, b.Publish(ctx, store, coll))
	csv := store.String("results.csv")
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "sequential,1,0,"))
	assert.True(t, strings.HasPrefix(lines[2], "parallel,1,32,"))
	assert.True(t, strings.HasSuffix(lines[3], ",300,300"))
}

func TestLoadCandidates_ListSize(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "list.txt", []byte("aaaaaaa1\nbbbbbbb2\nccccccc3\n")))

	cfg := smallConfig()
	cfg.Wordlist = "list.txt"
	cfg.Filtered = ""
	cfg.ListSize = 2

	b, err := saltsearch.New(cfg)
	require.NoError(t, err)

	candidates, err := b.LoadCandidates(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaa1", "bbbbbbb2"}, candidates)
}

func TestLoadCandidates_Missing(t *testing.T) {
	b, err := saltsearch.New(smallConfig())
	require.NoError(t, err)

	_, err = b.LoadCandidates(context.Background(), blobstore.NewMemoryStore())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRun_CustomFingerprinter(t *testing.T) {
	var calls atomic.Int64
	fp := digest.Func(func(c string, s digest.Salt) digest.Token {
		calls.Add(1)
		return digest.BLAKE2b{}.Fingerprint(c, s)
	})

	b, err := saltsearch.New(smallConfig(), saltsearch.WithFingerprinter(fp))
	require.NoError(t, err)

	coll, err := b.Run(context.Background(), testutil.NewRNG(22).Candidates(100, 8))
	require.NoError(t, err)
	assert.Equal(t, 3, coll.Len())
	assert.Positive(t, calls.Load())
}

func TestRun_Canceled(t *testing.T) {
	b, err := saltsearch.New(smallConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Run(ctx, testutil.NewRNG(23).Candidates(100, 8))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBasicMetricsCollector_BestSpeedup(t *testing.T) {
	m := &saltsearch.BasicMetricsCollector{}
	m.RecordRun(stats.KindSequential, stats.RunStatistics{Speedup: 1})
	m.RecordRun(stats.KindParallel, stats.RunStatistics{Speedup: 2.5})
	m.RecordRun(stats.KindParallel, stats.RunStatistics{Speedup: 1.5})

	s := m.GetStats()
	assert.Equal(t, 2.5, s.BestSpeedup)
	assert.Equal(t, int64(3), s.RunCount)
	assert.Zero(t, s.TrialAvgNanos)
}
