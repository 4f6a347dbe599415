// Package blobstore provides the storage abstraction wordlists are read from
// and reports are written to.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads are memory-mapped, writes are
//     renamed into place
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3, range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)   // Open for reading
//	    Put(ctx, name, data) error      // Whole-object write
//	}
//
// Blobs that can expose their contents without copying implement Mappable;
// ReadAll uses it when available.
package blobstore
