// Package wordlist loads candidate lists from a blobstore and filters raw
// password dumps down to the fixed-length, charset-constrained candidates
// the benchmark searches.
//
// Blobs are decompressed transparently by suffix:
//
//	.zst  zstd (klauspost/compress)
//	.gz   gzip (klauspost/compress)
//	.lz4  LZ4 frame (pierrec/lz4)
//
// The same suffixes select the encoding when FilterStore writes its output.
package wordlist
