package wordlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/saltsearch/blobstore"
	"github.com/hupe1980/saltsearch/resource"
)

// LoadOptions configures Load.
type LoadOptions struct {
	// Limit caps the number of candidates returned. Zero means no cap.
	Limit int
	// Logger receives a summary record. Nil discards it.
	Logger *slog.Logger
	// Resources bounds the transient buffers and the read rate. Nil imposes
	// no limits.
	Resources *resource.Controller
}

// Load reads the named blob and returns one candidate per non-empty line, in
// file order. The candidates are not validated; run Filter first if the
// source is a raw dump.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts LoadOptions) ([]string, error) {
	raw, release, err := read(ctx, store, name, opts.Resources)
	if err != nil {
		return nil, err
	}
	defer release()

	lines := Parse(raw, opts.Limit)

	if opts.Logger != nil {
		opts.Logger.InfoContext(ctx, "wordlist loaded",
			"name", name,
			"compression", CompressionFor(name).String(),
			"bytes", len(raw),
			"candidates", len(lines),
		)
	}
	return lines, nil
}

// Parse splits data into lines, dropping a trailing carriage return from each
// and skipping empty lines. limit > 0 stops after that many lines.
// The returned strings do not alias data.
func Parse(data []byte, limit int) []string {
	n := bytes.Count(data, []byte{'\n'}) + 1
	if limit > 0 && limit < n {
		n = limit
	}
	lines := make([]string, 0, n)

	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}
		lines = append(lines, string(line))
		if limit > 0 && len(lines) == limit {
			break
		}
	}
	return lines
}

// read returns the decoded contents of name. release must be called once
// the bytes are no longer needed; for uncompressed local blobs they alias a
// memory mapping.
func read(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, func(), error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("wordlist: open %s: %w", name, err)
	}

	var reserved int64
	release := func() {
		rc.ReleaseMemory(reserved)
		_ = blob.Close()
	}
	reserve := func(n int64) error {
		if err := rc.AcquireMemory(ctx, n); err != nil {
			return fmt.Errorf("wordlist: reserve %d bytes for %s: %w", n, name, err)
		}
		reserved += n
		return nil
	}

	if err := reserve(blob.Size()); err != nil {
		release()
		return nil, nil, err
	}

	var data []byte
	if rc.IOBurst() > 0 {
		data = make([]byte, blob.Size())
		_, err = io.ReadFull(resource.NewRateLimitedReader(ctx, io.NewSectionReader(blob, 0, blob.Size()), rc), data)
	} else {
		data, err = blobstore.ReadAll(blob)
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("wordlist: read %s: %w", name, err)
	}

	c := CompressionFor(name)
	decoded, err := Decompress(data, c)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("wordlist: decode %s: %w", name, err)
	}
	if c != CompressionNone {
		if err := reserve(int64(len(decoded))); err != nil {
			release()
			return nil, nil, err
		}
	}

	return decoded, release, nil
}
