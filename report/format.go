package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/hupe1980/saltsearch/stats"
)

// Format encodes report rows.
// Implementations must be safe for concurrent use.
type Format interface {
	Encode(w io.Writer, rows []Row) error
	Name() string
}

// ByName returns a built-in format by its stable name.
func ByName(name string) (Format, bool) {
	switch name {
	case "csv", "":
		return CSV{}, true
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// CSV is the persisted report: a header line and one line per row, floats
// with exactly six fractional digits.
type CSV struct{}

// Name returns "csv".
func (CSV) Name() string { return "csv" }

// Encode implements Format.
func (CSV) Encode(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	rec := make([]string, len(Header))
	for _, r := range rows {
		rec[0] = string(r.TestType)
		rec[1] = strconv.Itoa(r.NumThreads)
		rec[2] = strconv.Itoa(r.ChunkSize)
		rec[3] = fixed(r.MinTime)
		rec[4] = fixed(r.MaxTime)
		rec[5] = fixed(r.MeanTime)
		rec[6] = fixed(r.StdDev)
		rec[7] = fixed(r.Speedup)
		rec[8] = fixed(r.Efficiency)
		rec[9] = strconv.Itoa(r.PasswordPosition)
		rec[10] = strconv.Itoa(r.TotalPasswords)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// JSON is a machine-readable summary holding the same rows as CSV, rounded
// to the same precision.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

type summary struct {
	Rows []Row `json:"rows"`
	Best *Row  `json:"best,omitempty"`
}

// Encode implements Format.
func (JSON) Encode(w io.Writer, rows []Row) error {
	out := summary{Rows: make([]Row, len(rows))}
	for i, r := range rows {
		r.MinTime = round6(r.MinTime)
		r.MaxTime = round6(r.MaxTime)
		r.MeanTime = round6(r.MeanTime)
		r.StdDev = round6(r.StdDev)
		r.Speedup = round6(r.Speedup)
		r.Efficiency = round6(r.Efficiency)
		out.Rows[i] = r

		if r.TestType == stats.KindParallel && (out.Best == nil || r.Speedup > out.Best.Speedup) {
			out.Best = &out.Rows[i]
		}
	}

	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
