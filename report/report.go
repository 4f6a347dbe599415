// Package report renders the statistics of a benchmark run and publishes
// them to a blob store.
//
// Only finite rows are rendered. A row with a NaN or infinite field is left
// out without a placeholder; the remaining rows are unaffected.
package report

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/saltsearch/blobstore"
	"github.com/hupe1980/saltsearch/stats"
)

// Header names the columns of the persisted report, in order.
var Header = []string{
	"test_type",
	"num_threads",
	"chunk_size",
	"min_time",
	"max_time",
	"mean_time",
	"stddev",
	"speedup",
	"efficiency",
	"password_position",
	"total_passwords",
}

// Row is the validated projection of one statistics entry. Every float
// field is finite and non-negative.
type Row struct {
	TestType         stats.Kind `json:"test_type"`
	NumThreads       int        `json:"num_threads"`
	ChunkSize        int        `json:"chunk_size"`
	MinTime          float64    `json:"min_time"`
	MaxTime          float64    `json:"max_time"`
	MeanTime         float64    `json:"mean_time"`
	StdDev           float64    `json:"stddev"`
	Speedup          float64    `json:"speedup"`
	Efficiency       float64    `json:"efficiency"`
	PasswordPosition int        `json:"password_position"`
	TotalPasswords   int        `json:"total_passwords"`
}

// NewRow projects s into a Row. It reports false when s has a non-finite
// field.
func NewRow(kind stats.Kind, s stats.RunStatistics) (Row, bool) {
	if !s.Finite() {
		return Row{}, false
	}
	return Row{
		TestType:         kind,
		NumThreads:       max(s.Workers, 0),
		ChunkSize:        max(s.ChunkSize, 0),
		MinTime:          clamp(s.Min),
		MaxTime:          clamp(s.Max),
		MeanTime:         clamp(s.Mean),
		StdDev:           clamp(s.StdDev),
		Speedup:          clamp(s.Speedup),
		Efficiency:       clamp(s.Efficiency),
		PasswordPosition: max(s.TargetPosition, 0),
		TotalPasswords:   max(s.ListSize, 0),
	}, true
}

// Rows returns the rows of every finite entry of c, in insertion order.
func Rows(c *stats.Collection) []Row {
	entries := c.Entries()
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		if r, ok := NewRow(e.Kind, e.Stats); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Render encodes the rows of c in format f.
func Render(c *stats.Collection, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf, Rows(c)); err != nil {
		return nil, fmt.Errorf("report: encode %s: %w", f.Name(), err)
	}
	return buf.Bytes(), nil
}

// Publish renders c and writes it to store under name, replacing any
// previous report of that name.
func Publish(ctx context.Context, store blobstore.BlobStore, name string, c *stats.Collection, f Format) error {
	data, err := Render(c, f)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("report: write %s: %w", name, err)
	}
	return nil
}

func clamp(v float64) float64 {
	return math.Max(v, 0)
}
