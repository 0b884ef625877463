// Package source reads scored records from local files and object stores.
//
// A Store opens named, immutable inputs as Blobs. Built-in implementations:
//
//   - LocalStore: local filesystem, memory-mapped
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 (package source/s3)
//   - minio.Store: MinIO and other S3-compatible services (package source/minio)
//
// Blob contents are decoded by Decompress (zstd and lz4 by file extension),
// optionally throttled by LimitReader, and split into records by Scanner:
//
//	blob, err := store.Open(ctx, "scores.tsv.zst")
//	...
//	r, err := source.NewReader(ctx, blob)
//	...
//	dr, err := source.Decompress("scores.tsv.zst", r)
//	...
//	sc := source.NewScanner(dr, source.WithField(1))
//	best, err := topk.SelectSeq(sc.All(), 10, source.ByValueDesc)
//	if err == nil {
//	    err = sc.Err()
//	}
package source
