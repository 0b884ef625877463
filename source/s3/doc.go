// Package s3 reads inputs from Amazon S3.
//
// Objects are streamed with ranged GetObject calls. With
// WithDownloadConcurrency greater than one, whole objects are instead fetched
// by the transfer manager in concurrent parts before scanning, which is
// usually faster for large objects on high-latency links.
//
//	store, err := s3.NewStoreFromConfig(ctx, "my-bucket", "", s3.WithRegion("eu-west-1"))
//	if err != nil { ... }
//	blob, err := store.Open(ctx, "scores/2024-01-01.tsv.zst")
package s3
