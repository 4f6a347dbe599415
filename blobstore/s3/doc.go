// Package s3 provides an S3 implementation of the blobstore.BlobStore interface,
// and a DynamoDB-backed index of published benchmark reports.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "saltsearch/")
//
//	list, _ := wordlist.Load(ctx, store, "wordlists/filtered.txt.zst", wordlist.LoadOptions{})
//
// # Features
//
//   - Range reads through io.ReaderAt
//   - Managed uploads (multipart for large blobs)
//   - Configurable prefix for multi-tenant isolation
//   - RunIndex: conditional writes so a run ID is recorded at most once
package s3
