// Command saltsearch runs the password search benchmark and publishes its
// statistics.
//
// Usage:
//
//	saltsearch -config bench.yaml -store ./data
//	saltsearch -store s3://bucket/runs -workers 2,4,8 -chunks 1000 -run-index saltsearch-runs
//	saltsearch -store minio://localhost:9000/bench -prom-textfile /var/lib/node_exporter/saltsearch.prom
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/saltsearch"
	"github.com/hupe1980/saltsearch/envhint"
	"github.com/hupe1980/saltsearch/report"
	"github.com/hupe1980/saltsearch/resource"
	"github.com/hupe1980/saltsearch/stats"
	"github.com/hupe1980/saltsearch/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "saltsearch:", err)
		os.Exit(1)
	}
}

type flags struct {
	config       string
	store        string
	logLevel     string
	logJSON      bool
	verify       bool
	promTextfile string
	metricsAddr  string
	runIndex     string
	runID        string
	memoryLimit  int64
	ioLimit      int64

	workers string
	chunks  string
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("saltsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f flags
	fs.StringVar(&f.config, "config", "", "YAML configuration file")
	fs.StringVar(&f.store, "store", ".", "blob store: directory, s3://bucket/prefix or minio://host:port/bucket/prefix")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.BoolVar(&f.logJSON, "log-json", false, "log as JSON")
	fs.BoolVar(&f.verify, "verify", false, "check every trial outcome (perturbs timings)")
	fs.StringVar(&f.promTextfile, "prom-textfile", "", "write Prometheus metrics to this file when done")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	fs.StringVar(&f.runIndex, "run-index", "", "DynamoDB table recording published reports (s3 stores only)")
	fs.StringVar(&f.runID, "run-id", "", "run identifier for -run-index (default: timestamp)")
	fs.Int64Var(&f.memoryLimit, "memory-limit", 0, "maximum bytes buffered while loading the wordlist, 0 for no limit")
	fs.Int64Var(&f.ioLimit, "io-limit", 0, "maximum wordlist read rate in bytes per second, 0 for no limit")

	// Overrides of the configuration file. Only flags given explicitly are
	// applied.
	var (
		target     = fs.String("target", "", "secret to search for")
		salt       = fs.String("salt", "", "salt, first 8 bytes are used")
		digestName = fs.String("digest", "", "fingerprint function: des, blake2b")
		executions = fs.Int("executions", 0, "timed trials per configuration")
		listSize   = fs.Int("list-size", 0, "maximum number of candidates, 0 for all")
		wordlist   = fs.String("wordlist", "", "raw wordlist blob")
		filtered   = fs.String("filtered", "", "filtered wordlist blob, empty to skip filtering")
		reportName = fs.String("report", "", "report blob")
		format     = fs.String("format", "", "report format: csv, json")
		pin        = fs.Bool("pin", true, "pin CPUs and raise priority per configuration")
		evict      = fs.Bool("evict", true, "evict caches before every trial")
	)
	fs.StringVar(&f.workers, "workers", "", "comma-separated worker counts")
	fs.StringVar(&f.chunks, "chunks", "", "comma-separated chunk sizes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := saltsearch.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = saltsearch.LoadConfig(f.config); err != nil {
			return err
		}
	}

	var parseErrs []error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "target":
			cfg.Target = *target
		case "salt":
			cfg.Salt = *salt
		case "digest":
			cfg.Digest = *digestName
		case "executions":
			cfg.Executions = *executions
		case "list-size":
			cfg.ListSize = *listSize
		case "wordlist":
			cfg.Wordlist = *wordlist
		case "filtered":
			cfg.Filtered = *filtered
		case "report":
			cfg.Report = *reportName
		case "format":
			cfg.Format = *format
		case "pin":
			cfg.PinAffinity = *pin
		case "evict":
			cfg.EvictCaches = *evict
		case "workers":
			var err error
			if cfg.WorkerCounts, err = parseInts(f.workers); err != nil {
				parseErrs = append(parseErrs, fmt.Errorf("-workers: %w", err))
			}
		case "chunks":
			var err error
			if cfg.ChunkSizes, err = parseInts(f.chunks); err != nil {
				parseErrs = append(parseErrs, fmt.Errorf("-chunks: %w", err))
			}
		}
	})
	if err := errors.Join(parseErrs...); err != nil {
		return err
	}

	level, err := parseLevel(f.logLevel)
	if err != nil {
		return err
	}
	logger := saltsearch.NewTextLogger(level)
	if f.logJSON {
		logger = saltsearch.NewJSONLogger(level)
	}

	collector, err := telemetry.NewCollector(telemetry.DefaultNamespace)
	if err != nil {
		return err
	}
	if f.metricsAddr != "" {
		srv := &http.Server{
			Addr:              f.metricsAddr,
			Handler:           promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	st, err := openStore(ctx, f.store)
	if err != nil {
		return err
	}

	var hints envhint.Hints = envhint.Noop{}
	if cfg.PinAffinity || cfg.EvictCaches {
		hints = envhint.NewSystem()
	}

	b, err := saltsearch.New(cfg,
		saltsearch.WithLogger(logger),
		saltsearch.WithMetricsCollector(collector),
		saltsearch.WithEnvironmentHints(hints),
		saltsearch.WithVerify(f.verify),
		saltsearch.WithResources(resource.NewController(resource.Config{
			MemoryLimitBytes:   f.memoryLimit,
			IOLimitBytesPerSec: f.ioLimit,
		})),
	)
	if err != nil {
		return err
	}

	candidates, err := b.LoadCandidates(ctx, st.BlobStore)
	if err != nil {
		return err
	}

	coll, err := b.Run(ctx, candidates)
	if err != nil {
		return err
	}

	if err := b.Publish(ctx, st.BlobStore, coll); err != nil {
		return err
	}

	if f.runIndex != "" {
		if err := st.recordRun(ctx, f.runIndex, f.runID, cfg.Report, coll); err != nil {
			return err
		}
	}

	if f.promTextfile != "" {
		if err := collector.WriteTextfile(f.promTextfile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("-log-level: %w", err)
	}
	return l, nil
}

func rowCount(coll *stats.Collection) int {
	return len(report.Rows(coll))
}
