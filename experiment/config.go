package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/saltsearch/digest"
	"go.yaml.in/yaml/v3"
)

// Config is the configuration surface of a benchmark run.
type Config struct {
	// Target is the secret spliced into the candidate list.
	Target string `yaml:"target"`
	// Salt keys every fingerprint. Only the first 8 bytes are used.
	Salt string `yaml:"salt"`
	// Digest names the fingerprint function, see digest.ByName.
	Digest string `yaml:"digest"`

	// Executions is the number of timed trials per configuration.
	Executions int `yaml:"executions"`
	// WorkerCounts and ChunkSizes span the parallel configurations.
	WorkerCounts []int `yaml:"worker_counts"`
	ChunkSizes   []int `yaml:"chunk_sizes"`
	// ListSize caps the number of candidates loaded. Zero loads all.
	ListSize int `yaml:"list_size"`

	// SequentialHalfStep and ParallelHalfStep shift the target half a step
	// into each interval.
	SequentialHalfStep bool `yaml:"sequential_half_step"`
	ParallelHalfStep   bool `yaml:"parallel_half_step"`

	// EvictCaches evicts the processor caches before every trial.
	EvictCaches bool `yaml:"evict_caches"`
	// PinAffinity pins the process to as many CPUs as workers and raises
	// its priority for each configuration.
	PinAffinity bool `yaml:"pin_affinity"`

	// Wordlist is the raw candidate source, Filtered the filtered copy
	// and Report the published statistics. All are blob names.
	Wordlist string `yaml:"wordlist"`
	Filtered string `yaml:"filtered"`
	Report   string `yaml:"report"`
	// Format is the report format, see report.ByName.
	Format string `yaml:"format"`
}

// DefaultConfig returns the reference benchmark setup.
func DefaultConfig() Config {
	return Config{
		Target:           "ParaComp",
		Salt:             "Leonardo8",
		Digest:           "des",
		Executions:       10,
		WorkerCounts:     []int{2, 4, 6, 8},
		ChunkSizes:       []int{500, 1000, 2000, 4000},
		ParallelHalfStep: true,
		EvictCaches:      true,
		PinAffinity:      true,
		Wordlist:         "rockyou.txt",
		Filtered:         "filtered_passwords.txt",
		Report:           "password_search_results.csv",
		Format:           "csv",
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("experiment: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("experiment: parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FieldError reports one invalid configuration field.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("experiment: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, value any, reason string) {
		errs = append(errs, &FieldError{Field: field, Value: value, Reason: reason})
	}

	if c.Target == "" {
		bad("target", `""`, "must not be empty")
	}
	if c.Salt == "" {
		bad("salt", `""`, "must not be empty")
	}
	if _, ok := digest.ByName(c.Digest); !ok {
		bad("digest", c.Digest, "unknown fingerprint function")
	}
	if c.Executions < 1 {
		bad("executions", c.Executions, "must be at least 1")
	}
	if c.ListSize < 0 {
		bad("list_size", c.ListSize, "must not be negative")
	}
	if len(c.WorkerCounts) == 0 {
		bad("worker_counts", "[]", "must not be empty")
	}
	for _, w := range c.WorkerCounts {
		if w < 1 {
			bad("worker_counts", w, "must be at least 1")
		}
	}
	if len(c.ChunkSizes) == 0 {
		bad("chunk_sizes", "[]", "must not be empty")
	}
	for _, cs := range c.ChunkSizes {
		if cs < 1 {
			bad("chunk_sizes", cs, "must be at least 1")
		}
	}

	return errors.Join(errs...)
}

// Positions returns the target position of every trial. The list is cut
// into executions equal steps; trial i uses the start of step i, or its
// middle with halfStep. The last trial always uses listSize, which leaves the
// target out and forces a full scan.
func Positions(listSize, executions int, halfStep bool) []int {
	if executions < 1 {
		return nil
	}
	listSize = max(listSize, 0)

	step := listSize / executions
	pos := make([]int, executions)
	for i := 0; i < executions-1; i++ {
		p := step * i
		if halfStep {
			p += step / 2
		}
		pos[i] = min(max(p, 0), listSize)
	}
	pos[executions-1] = listSize
	return pos
}
