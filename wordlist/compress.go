package wordlist

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a blob encoding.
type Compression uint8

const (
	// CompressionNone stores plain text.
	CompressionNone Compression = iota
	// CompressionZSTD uses zstd frames.
	CompressionZSTD
	// CompressionGzip uses gzip.
	CompressionGzip
	// CompressionLZ4 uses LZ4 frames.
	CompressionLZ4
)

// String returns the file suffix of c without the dot, or "none".
func (c Compression) String() string {
	switch c {
	case CompressionZSTD:
		return "zst"
	case CompressionGzip:
		return "gz"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// CompressionFor picks the encoding from the suffix of name.
func CompressionFor(name string) Compression {
	switch path.Ext(name) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".gz":
		return CompressionGzip
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Decompress decodes data according to c. CompressionNone returns data as is.
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("wordlist: zstd: %w", err)
		}
		return out, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("wordlist: gzip: %w", err)
		}
		defer r.Close()
		return readAll(r, "gzip")
	case CompressionLZ4:
		return readAll(lz4.NewReader(bytes.NewReader(data)), "lz4")
	default:
		return nil, fmt.Errorf("wordlist: unknown compression %d", c)
	}
}

// Compress encodes data according to c.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		return finish(&buf, w, data, "gzip")
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		return finish(&buf, w, data, "lz4")
	default:
		return nil, fmt.Errorf("wordlist: unknown compression %d", c)
	}
}

func readAll(r io.Reader, codec string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wordlist: %s: %w", codec, err)
	}
	return out, nil
}

func finish(buf *bytes.Buffer, w io.WriteCloser, data []byte, codec string) ([]byte, error) {
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("wordlist: %s: %w", codec, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("wordlist: %s: %w", codec, err)
	}
	return buf.Bytes(), nil
}
