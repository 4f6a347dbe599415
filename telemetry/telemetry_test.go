package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/saltsearch/experiment"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c, err := NewCollector("")
	require.NoError(t, err)

	c.RecordTrial(stats.KindParallel, 4, 500, experiment.TrialResult{Elapsed: 20 * time.Millisecond, Found: true})
	c.RecordTrial(stats.KindParallel, 4, 500, experiment.TrialResult{Elapsed: 30 * time.Millisecond})
	c.RecordTrial(stats.KindSequential, 1, 0, experiment.TrialResult{Elapsed: time.Second, Found: true, Mismatch: true})
	c.RecordRun(stats.KindParallel, stats.RunStatistics{Workers: 4, ChunkSize: 500, Mean: 0.025, Speedup: 3.2, Efficiency: 0.8})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.trials.WithLabelValues("parallel", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.trials.WithLabelValues("parallel", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mismatches))
	assert.Equal(t, 3.2, testutil.ToFloat64(c.speedup.WithLabelValues("parallel", "4", "500")))
	assert.Equal(t, 0.8, testutil.ToFloat64(c.efficiency.WithLabelValues("parallel", "4", "500")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.trialSeconds))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a, err := NewCollector("bench")
	require.NoError(t, err)
	b, err := NewCollector("bench")
	require.NoError(t, err)
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestCollector_WriteTextfile(t *testing.T) {
	c, err := NewCollector("bench")
	require.NoError(t, err)
	c.RecordRun(stats.KindSequential, stats.RunStatistics{Workers: 1, Mean: 0.4, Speedup: 1, Efficiency: 1})

	path := filepath.Join(t.TempDir(), "saltsearch.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `bench_speedup_ratio{chunk_size="0",kind="sequential",workers="1"} 1`), text)
	assert.Contains(t, text, "# HELP bench_mean_duration_seconds")
}
