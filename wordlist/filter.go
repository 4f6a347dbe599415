package wordlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/saltsearch/blobstore"
)

// Policy decides which lines are usable candidates.
type Policy struct {
	// Length is the exact byte length required. Zero accepts any length.
	Length int
	// Allowed reports whether a byte may appear in a candidate.
	// Nil allows every byte.
	Allowed func(c byte) bool
}

// DefaultPolicy keeps 8-byte candidates over [a-zA-Z0-9./], the alphabet of
// the classic crypt(3) salt.
var DefaultPolicy = Policy{
	Length:  8,
	Allowed: CryptAlphabet,
}

// CryptAlphabet reports whether c is in [a-zA-Z0-9./].
func CryptAlphabet(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '.' || c == '/'
}

// Accept reports whether s satisfies the policy.
func (p Policy) Accept(s string) bool {
	if p.Length > 0 && len(s) != p.Length {
		return false
	}
	if p.Allowed == nil {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !p.Allowed(s[i]) {
			return false
		}
	}
	return true
}

// Filter returns the lines accepted by p, preserving order.
func Filter(lines []string, p Policy) []string {
	out := make([]string, 0, len(lines)/4)
	for _, l := range lines {
		if p.Accept(l) {
			out = append(out, l)
		}
	}
	return out
}

// FilterResult summarizes a FilterStore call.
type FilterResult struct {
	// Skipped is true when the output already existed and nothing was done.
	Skipped bool
	// Total is the number of non-empty input lines.
	Total int
	// Kept is the number of lines written.
	Kept int
}

// FilterStore filters the blob in into the blob out.
//
// An existing out is left untouched and reported as skipped, so a
// multi-gigabyte dump is filtered only once. Both names select their
// compression by suffix. opts applies to reading in; its Limit is ignored.
func FilterStore(ctx context.Context, store blobstore.BlobStore, in, out string, p Policy, opts LoadOptions) (FilterResult, error) {
	logger := opts.Logger

	exists, err := blobstore.Exists(ctx, store, out)
	if err != nil {
		return FilterResult{}, fmt.Errorf("wordlist: stat %s: %w", out, err)
	}
	if exists {
		if logger != nil {
			logger.InfoContext(ctx, "filtered wordlist already exists", "name", out)
		}
		return FilterResult{Skipped: true}, nil
	}

	opts.Limit = 0
	opts.Logger = nil
	lines, err := Load(ctx, store, in, opts)
	if err != nil {
		return FilterResult{}, err
	}
	kept := Filter(lines, p)

	var sb strings.Builder
	for _, l := range kept {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	data, err := Compress([]byte(sb.String()), CompressionFor(out))
	if err != nil {
		return FilterResult{}, err
	}
	if err := store.Put(ctx, out, data); err != nil {
		return FilterResult{}, fmt.Errorf("wordlist: write %s: %w", out, err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "wordlist filtered",
			"input", in,
			"output", out,
			"total", len(lines),
			"kept", len(kept),
		)
	}
	return FilterResult{Total: len(lines), Kept: len(kept)}, nil
}
